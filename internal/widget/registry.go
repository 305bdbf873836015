// ABOUTME: Registry of live conversations keyed by (visitor, agent)
// ABOUTME: Evicts idle conversations; durable state stays in storage

package widget

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/emberhq/ember-widget/internal/storage"
)

const staleThreshold = 30 * time.Minute

// Registry holds the in-memory conversation per (visitor, agent) pair.
// Evicting a conversation loses only transient UI state; the session id
// lives in storage and resumes on the next mount.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	cancel        context.CancelFunc

	store           storage.KV
	backend         Backend
	defaultGreeting string
	logger          *slog.Logger
}

// NewRegistry creates a registry and starts its cleanup loop
func NewRegistry(store storage.KV, be Backend, defaultGreeting string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		conversations:   make(map[string]*Conversation),
		cancel:          cancel,
		store:           store,
		backend:         be,
		defaultGreeting: defaultGreeting,
		logger:          logger.With("component", "registry"),
	}
	go r.cleanupLoop(ctx)
	return r
}

// registryKey builds the map key for one (visitor, agent) pair.
// Uses | as delimiter since it's not valid in either id.
func registryKey(visitorID, agentID string) string {
	return visitorID + "|" + agentID
}

// GetOrCreate returns the live conversation for the pair, creating one if
// needed. userID is the visitor's stable user id from EnsureUserID.
func (r *Registry) GetOrCreate(visitorID, agentID, userID string) *Conversation {
	key := registryKey(visitorID, agentID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[key]; ok {
		conv.mu.Lock()
		conv.touch()
		conv.mu.Unlock()
		return conv
	}

	conv := NewConversation(r.store, r.backend, visitorID, agentID, userID, r.defaultGreeting, r.logger)
	r.conversations[key] = conv
	return conv
}

// Remove drops a conversation from the registry
func (r *Registry) Remove(visitorID, agentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, registryKey(visitorID, agentID))
}

// cleanupLoop periodically evicts idle conversations
func (r *Registry) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictStale()
		}
	}
}

// evictStale removes conversations idle for longer than staleThreshold
func (r *Registry) evictStale() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for key, conv := range r.conversations {
		conv.mu.Lock()
		idle := now.Sub(conv.lastUsed)
		conv.mu.Unlock()

		if idle > staleThreshold {
			delete(r.conversations, key)
		}
	}
}

// Close stops the cleanup loop and drops all conversations
func (r *Registry) Close() {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations = make(map[string]*Conversation)
}
