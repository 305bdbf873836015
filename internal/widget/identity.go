// ABOUTME: Per-visitor user id provisioning
// ABOUTME: Generated once per visitor, persisted indefinitely, reused across agents

package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberhq/ember-widget/internal/storage"
)

// EnsureUserID returns the visitor's stable user id, generating and
// persisting a fresh UUID on first sight. The same user id is shared by
// every agent the visitor talks to.
func EnsureUserID(ctx context.Context, kv storage.KV, visitorID string) (string, error) {
	key := storage.UserKey(visitorID)

	userID, err := kv.Get(ctx, key)
	if err == nil && userID != "" {
		return userID, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("reading user id: %w", err)
	}

	userID = uuid.New().String()
	if err := kv.Set(ctx, key, userID); err != nil {
		return "", fmt.Errorf("persisting user id: %w", err)
	}
	return userID, nil
}
