// ABOUTME: Tests for the conversation registry
// ABOUTME: Verifies identity per (visitor, agent) pair and idle eviction

package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emberhq/ember-widget/internal/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(storage.NewMemoryKV(), &fakeBackend{}, "Hello!", nil)
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_GetOrCreateReturnsSameConversation(t *testing.T) {
	r := newTestRegistry(t)

	first := r.GetOrCreate("v1", "a1", "u1")
	second := r.GetOrCreate("v1", "a1", "u1")
	assert.Same(t, first, second)

	otherAgent := r.GetOrCreate("v1", "a2", "u1")
	assert.NotSame(t, first, otherAgent)

	otherVisitor := r.GetOrCreate("v2", "a1", "u2")
	assert.NotSame(t, first, otherVisitor)
}

func TestRegistry_Remove(t *testing.T) {
	r := newTestRegistry(t)

	first := r.GetOrCreate("v1", "a1", "u1")
	r.Remove("v1", "a1")
	second := r.GetOrCreate("v1", "a1", "u1")
	assert.NotSame(t, first, second)
}

func TestRegistry_EvictsStaleConversations(t *testing.T) {
	r := newTestRegistry(t)

	conv := r.GetOrCreate("v1", "a1", "u1")
	conv.mu.Lock()
	conv.lastUsed = time.Now().Add(-time.Hour)
	conv.mu.Unlock()

	fresh := r.GetOrCreate("v2", "a1", "u2")

	r.evictStale()

	assert.NotSame(t, conv, r.GetOrCreate("v1", "a1", "u1"))
	assert.Same(t, fresh, r.GetOrCreate("v2", "a1", "u2"))
}
