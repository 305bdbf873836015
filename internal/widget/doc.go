// Package widget implements the embeddable chat widget session lifecycle.
//
// # Lifecycle
//
// A widget mount loads the agent's settings, resolves the visitor's
// session, and then exchanges messages:
//
//	settings load -> session resolve -> message exchange
//
// Session resolution is a small state machine:
//
//	StateNone -> StateLoading -> {StateResumed, StateFresh, StateError}
//
// A persisted session id is resumed by fetching history and interleaving
// each stored record into a user turn and an assistant turn. An empty or
// unreachable history clears the persisted id and fails open to a fresh
// conversation seeded with the agent's greeting. A fresh conversation has
// exactly one assistant greeting message.
//
// # Exchange engine
//
// Send is asynchronous from the widget's point of view but serialized per
// conversation: at most one exchange is in flight, enforced by the loading
// flag. The user message is appended optimistically before the backend
// call; on success the server-assigned session id is adopted and
// persisted, on failure a fixed apology message is appended and the error
// is logged, never propagated. The loading flag is always cleared.
//
// # Storage
//
// All durable state (visitor user id, active session id) goes through the
// injected storage.KV interface; the package holds no globals.
package widget
