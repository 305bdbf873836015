// ABOUTME: Widget settings retrieval from the backend config endpoint
// ABOUTME: Wire types for per-agent display and theming configuration

package backend

import (
	"context"
	"fmt"
)

// WidgetSettings is the per-agent widget configuration as served by the
// backend. Field names follow the backend wire format.
type WidgetSettings struct {
	IsPublic           bool   `json:"is_public"`
	DisplayName        string `json:"display_name"`
	InitialMessage     string `json:"initial_message"`
	SuggestedQuestions string `json:"suggested_questions"`
	MessagePlaceholder string `json:"message_placeholder"`
	Theme              string `json:"theme"`
	ChatIcon           string `json:"chat_icon,omitempty"`
	BubbleAlignment    string `json:"bubble_alignment"`
	PrimaryColor       string `json:"primary_color,omitempty"`
}

// GetWidgetSettings fetches the widget configuration for one agent.
// Exactly one fetch per widget mount; no retry or backoff.
func (c *Client) GetWidgetSettings(ctx context.Context, agentID string) (*WidgetSettings, error) {
	var settings WidgetSettings
	path := fmt.Sprintf("/widget/config/%s", agentID)
	if err := c.getJSON(ctx, path, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
