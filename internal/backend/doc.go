// Package backend is the JSON-over-HTTP client for the remote chat API.
//
// The widget gateway is a presentation-layer relay: model inference,
// training, retrieval, and session persistence all live behind this API.
// The client covers four operations:
//
//   - GetWidgetSettings: GET /widget/config/{agentId}
//   - GetMessages:       GET /chat/messages/{agentId}?user=&session_id=
//   - SendMessage:       POST /chat/{agentId}
//   - ListSessions:      GET /chat/sessions/{agentId}?user=
//
// Every call takes a context and uses the configured client timeout.
// A 404 maps to ErrNotFound; other non-2xx statuses map to *StatusError.
// There is deliberately no retry or backoff: failure handling is the
// caller's concern (the session resolver fails open, the exchange engine
// degrades to an in-conversation apology).
package backend
