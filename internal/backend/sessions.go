// ABOUTME: Session listing for one (agent, user) pair
// ABOUTME: Backs the minimal sessions dashboard and the admin CLI

package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// SessionSummary describes one past conversation thread
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Input     string    `json:"input"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSessions fetches the conversation threads the backend has stored
// for one user with one agent.
func (c *Client) ListSessions(ctx context.Context, agentID, userID string) ([]SessionSummary, error) {
	query := url.Values{}
	query.Set("user", userID)

	var sessions []SessionSummary
	path := fmt.Sprintf("/chat/sessions/%s", agentID)
	if err := c.getJSON(ctx, path, query, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
