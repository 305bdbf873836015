// ABOUTME: Conversation state and the session resolver state machine
// ABOUTME: Resumes persisted sessions from history or seeds a fresh greeting

package widget

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberhq/ember-widget/internal/backend"
	"github.com/emberhq/ember-widget/internal/storage"
)

// State is the session resolver's position in its lifecycle
type State string

const (
	StateNone    State = "none"
	StateLoading State = "loading"
	StateResumed State = "resumed"
	StateFresh   State = "fresh"
	StateError   State = "error"
)

// HistoryFetcher is the backend capability the resolver needs
type HistoryFetcher interface {
	GetMessages(ctx context.Context, agentID, userID, sessionID string) ([]backend.HistoryRecord, error)
}

// MessageSender is the backend capability the exchange engine needs
type MessageSender interface {
	SendMessage(ctx context.Context, agentID string, sessionID *string, userID, query string) (*backend.SendResult, error)
}

// Backend combines the capabilities a conversation uses
type Backend interface {
	HistoryFetcher
	MessageSender
}

// Conversation tracks one visitor's chat with one agent: the resolved
// session, the message list, and the in-flight guard. All mutation goes
// through its mutex; messages are append-only until a full reset.
type Conversation struct {
	mu sync.Mutex

	agentID   string
	visitorID string
	userID    string

	store   storage.KV
	backend Backend
	logger  *slog.Logger

	defaultGreeting string

	settings    *Settings
	resolvedFor *Settings // identity guard against duplicate resolution

	state     State
	sessionID string // empty until the backend assigns one
	messages  []ChatMessage
	loading   bool

	createdAt time.Time
	lastUsed  time.Time
}

// NewConversation creates an unresolved conversation for one (visitor, agent) pair
func NewConversation(store storage.KV, be Backend, visitorID, agentID, userID, defaultGreeting string, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	return &Conversation{
		agentID:         agentID,
		visitorID:       visitorID,
		userID:          userID,
		store:           store,
		backend:         be,
		logger:          logger.With("component", "conversation", "agent_id", agentID),
		defaultGreeting: defaultGreeting,
		state:           StateNone,
		createdAt:       now,
		lastUsed:        now,
	}
}

// Resolve runs the session resolver: resume a persisted session from its
// history, or seed a fresh conversation with the configured greeting.
// Re-resolving with the same settings identity is a no-op, so settings
// arriving asynchronously after mount cannot duplicate messages or
// trigger a second history fetch.
func (c *Conversation) Resolve(ctx context.Context, settings *Settings) {
	if settings == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolvedFor == settings {
		return
	}
	c.resolvedFor = settings
	c.settings = settings
	c.state = StateLoading
	c.lastUsed = time.Now()

	sessionKey := storage.SessionKey(c.visitorID, c.agentID)
	stored, err := c.store.Get(ctx, sessionKey)
	if err != nil || stored == "" {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.logger.Error("failed to read persisted session", "error", err)
		}
		c.seedFresh()
		return
	}

	history, err := c.backend.GetMessages(ctx, c.agentID, c.userID, stored)
	if err != nil || len(history) == 0 {
		// Stale or unreachable session: clear it and fail open to a
		// clean conversation rather than a hard error.
		if err != nil {
			c.logger.Warn("history fetch failed, starting fresh", "error", err, "session_id", stored)
		}
		if delErr := c.store.Delete(ctx, sessionKey); delErr != nil {
			c.logger.Error("failed to clear stale session", "error", delErr)
		}
		c.seedFresh()
		return
	}

	c.sessionID = stored
	c.messages = interleaveHistory(history)
	c.state = StateResumed

	c.logger.Debug("session resumed",
		"session_id", stored,
		"messages", len(c.messages))
}

// seedFresh starts a clean conversation: no session id and exactly one
// assistant greeting. Callers must hold c.mu.
func (c *Conversation) seedFresh() {
	greeting := c.defaultGreeting
	if c.settings != nil && c.settings.InitialMessage != "" {
		greeting = c.settings.InitialMessage
	}

	c.sessionID = ""
	c.messages = []ChatMessage{{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   greeting,
		Timestamp: time.Now(),
	}}
	c.state = StateFresh
}

// interleaveHistory expands each stored record into a user turn followed
// by an assistant turn, preserving the original order. The greeting is
// never part of a resumed list.
func interleaveHistory(history []backend.HistoryRecord) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history)*2)
	for _, rec := range history {
		messages = append(messages,
			ChatMessage{
				ID:        rec.ID + "-user",
				Role:      RoleUser,
				Content:   rec.HumanMessage,
				Timestamp: rec.DateTime,
			},
			ChatMessage{
				ID:        rec.ID + "-ai",
				Role:      RoleAssistant,
				Content:   rec.AIMessage,
				Timestamp: rec.DateTime,
			},
		)
	}
	return messages
}

// Reset clears the persisted session id. The HTTP layer follows this with
// a redirect so the next mount re-resolves from scratch (full reload, not
// an in-place soft reset).
func (c *Conversation) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, storage.SessionKey(c.visitorID, c.agentID)); err != nil {
		return err
	}
	c.sessionID = ""
	c.messages = nil
	c.settings = nil
	c.resolvedFor = nil
	c.state = StateNone
	return nil
}

// State returns the resolver's current state
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the active session id, empty if none has been assigned
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Settings returns the settings this conversation was resolved with
func (c *Conversation) Settings() *Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Loading reports whether an exchange is in flight
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Messages returns a snapshot of the message list
func (c *Conversation) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the current message count
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// touch refreshes the idle timer. Callers must hold c.mu.
func (c *Conversation) touch() {
	c.lastUsed = time.Now()
}
