// ABOUTME: KV interface and key helpers for durable widget client state
// ABOUTME: Holds per-visitor user ids and per-(visitor,agent) session ids

package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested key does not exist
var ErrNotFound = errors.New("not found")

// KV is the durable key-value store the session lifecycle depends on.
// It replaces the browser's local storage from the original widget: an
// explicit injected interface so the resolver and exchange engine can be
// tested against a double instead of hidden global state.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store
	Close() error
}

// UserKey returns the storage key holding a visitor's generated user id.
// The user id is provisioned once per visitor and reused across agents.
func UserKey(visitorID string) string {
	return "user:" + visitorID
}

// SessionKey returns the storage key holding the active conversation
// session id for one (visitor, agent) pair. At most one session is
// tracked per pair; starting fresh deletes the entry.
func SessionKey(visitorID, agentID string) string {
	return "session:" + visitorID + ":" + agentID
}
