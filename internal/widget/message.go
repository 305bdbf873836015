// ABOUTME: Chat message and role types for the widget conversation
// ABOUTME: Messages are immutable after creation; only a full reset discards them

package widget

import "time"

// Role identifies which side of the conversation authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in a conversation. IDs are server-assigned for
// persisted turns and client-generated UUIDs for transient turns
// (greetings and apology messages).
type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}
