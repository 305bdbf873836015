// ABOUTME: Conversation history retrieval and message sending
// ABOUTME: Wire types match the backend's human_message/ai_message pair format

package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// HistoryRecord is one stored exchange: the visitor's message and the
// agent's reply, persisted together by the backend.
type HistoryRecord struct {
	ID           string    `json:"id"`
	HumanMessage string    `json:"human_message"`
	AIMessage    string    `json:"ai_message"`
	DateTime     time.Time `json:"date_time"`
}

// GetMessages fetches the stored history for a (agent, user, session) triple
// in chronological order.
func (c *Client) GetMessages(ctx context.Context, agentID, userID, sessionID string) ([]HistoryRecord, error) {
	query := url.Values{}
	query.Set("user", userID)
	query.Set("session_id", sessionID)

	var records []HistoryRecord
	path := fmt.Sprintf("/chat/messages/%s", agentID)
	if err := c.getJSON(ctx, path, query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// sendPayload is the request body for the chat exchange endpoint.
// Streaming is always disabled; the widget consumes complete replies.
type sendPayload struct {
	SessionID *string `json:"session_id,omitempty"`
	UserUID   string  `json:"user_uid"`
	Query     string  `json:"query"`
	Stream    bool    `json:"stream"`
}

// SendResult is the backend's reply to a chat exchange
type SendResult struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	AIMessage string    `json:"ai_message"`
	DateTime  time.Time `json:"date_time"`
}

// SendMessage relays one user query to the agent and returns the reply.
// sessionID is nil for the first exchange of a conversation; the backend
// assigns one and returns it in the result.
func (c *Client) SendMessage(ctx context.Context, agentID string, sessionID *string, userID, query string) (*SendResult, error) {
	payload := sendPayload{
		SessionID: sessionID,
		UserUID:   userID,
		Query:     query,
		Stream:    false,
	}

	var result SendResult
	path := fmt.Sprintf("/chat/%s", agentID)
	if err := c.postJSON(ctx, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
