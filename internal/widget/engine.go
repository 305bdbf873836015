// ABOUTME: Message exchange engine with optimistic append and serialization guard
// ABOUTME: Failures degrade to an in-conversation apology, never an error state

package widget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emberhq/ember-widget/internal/storage"
)

// ApologyMessage is appended as an assistant turn when an exchange fails.
// The failure is logged but otherwise swallowed: the input re-enables and
// the user can simply send again.
const ApologyMessage = "Sorry, I encountered an error while processing your message. Please try again."

// Send relays one user message to the backend and appends the reply.
//
// Blank text or an exchange already in flight makes this a no-op: the UI
// disables the input while loading, but the engine guards as well so a
// race cannot interleave two exchanges. The user message is appended
// optimistically before the backend call. On the first successful
// exchange the server-assigned session id is adopted and persisted.
// A suggested-question click goes through this same path.
//
// The returned error is for observability only: the conversation has
// already absorbed the failure as an apology turn by the time it returns.
func (c *Conversation) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if text == "" || c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.touch()
	c.messages = append(c.messages, ChatMessage{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})

	var sessionID *string
	if c.sessionID != "" {
		sid := c.sessionID
		sessionID = &sid
	}
	agentID, userID := c.agentID, c.userID
	c.mu.Unlock()

	// Loading must clear on every path or the input stays stuck
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	result, err := c.backend.SendMessage(ctx, agentID, sessionID, userID, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("message exchange failed", "error", err)
		c.messages = append(c.messages, ChatMessage{
			ID:        uuid.New().String(),
			Role:      RoleAssistant,
			Content:   ApologyMessage,
			Timestamp: time.Now(),
		})
		return err
	}

	if c.sessionID == "" && result.SessionID != "" {
		c.sessionID = result.SessionID
		if err := c.store.Set(ctx, storage.SessionKey(c.visitorID, c.agentID), result.SessionID); err != nil {
			c.logger.Error("failed to persist session id", "error", err, "session_id", result.SessionID)
		}
	}

	c.messages = append(c.messages, ChatMessage{
		ID:        result.ID,
		Role:      RoleAssistant,
		Content:   result.AIMessage,
		Timestamp: result.DateTime,
	})
	return nil
}
