// ABOUTME: Widget settings loading with the public/private gate
// ABOUTME: Parses backend wire settings into the domain form used by rendering

package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emberhq/ember-widget/internal/backend"
)

// Settings load error states. Each is terminal for the mount: the widget
// renders a static error instead of the chat UI.
var (
	// ErrAgentRequired means no agent id was supplied; no network call is made.
	ErrAgentRequired = errors.New("agent ID is required")

	// ErrNotPublic means the agent exists but its widget is private.
	// The chat UI must not render regardless of the fetch succeeding.
	ErrNotPublic = errors.New("configuration not found")

	// ErrSettingsLoad wraps transport or parse failures.
	ErrSettingsLoad = errors.New("failed to load chat settings")
)

// SettingsFetcher is the backend capability the loader needs
type SettingsFetcher interface {
	GetWidgetSettings(ctx context.Context, agentID string) (*backend.WidgetSettings, error)
}

// Settings is the parsed, display-ready widget configuration for one agent.
// It is fetched once per widget mount and immutable for the session.
type Settings struct {
	AgentID            string
	DisplayName        string
	InitialMessage     string
	SuggestedQuestions []string
	MessagePlaceholder string
	Theme              string
	ChatIcon           string
	BubbleAlignment    string
	PrimaryColor       string
}

// LoadSettings fetches and parses the widget configuration for one agent.
// Exactly one fetch per mount; no retry.
func LoadSettings(ctx context.Context, fetcher SettingsFetcher, agentID string) (*Settings, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, ErrAgentRequired
	}

	wire, err := fetcher.GetWidgetSettings(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsLoad, err)
	}

	if !wire.IsPublic {
		return nil, ErrNotPublic
	}

	return &Settings{
		AgentID:            agentID,
		DisplayName:        wire.DisplayName,
		InitialMessage:     wire.InitialMessage,
		SuggestedQuestions: parseSuggestedQuestions(wire.SuggestedQuestions),
		MessagePlaceholder: wire.MessagePlaceholder,
		Theme:              wire.Theme,
		ChatIcon:           wire.ChatIcon,
		BubbleAlignment:    wire.BubbleAlignment,
		PrimaryColor:       wire.PrimaryColor,
	}, nil
}

// parseSuggestedQuestions splits the newline-delimited wire value into a
// list, dropping blank lines. The greeting is NOT split this way: the
// embed path treats initial_message as a single string.
func parseSuggestedQuestions(raw string) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}
