// ABOUTME: Tests for the SQLite KV store
// ABOUTME: Verifies round-trips, overwrites, deletes, and reopen persistence

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestKV(t *testing.T) (*SQLiteKV, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestSQLiteKV_GetMissing(t *testing.T) {
	s, _ := createTestKV(t)

	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteKV_SetGet(t *testing.T) {
	s, _ := createTestKV(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, UserKey("v1"), "u-123"))

	got, err := s.Get(ctx, UserKey("v1"))
	require.NoError(t, err)
	assert.Equal(t, "u-123", got)
}

func TestSQLiteKV_SetOverwrites(t *testing.T) {
	s, _ := createTestKV(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "first"))
	require.NoError(t, s.Set(ctx, "k", "second"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSQLiteKV_Delete(t *testing.T) {
	s, _ := createTestKV(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, SessionKey("v1", "a1"), "sess-9"))
	require.NoError(t, s.Delete(ctx, SessionKey("v1", "a1")))

	_, err := s.Get(ctx, SessionKey("v1", "a1"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error
	assert.NoError(t, s.Delete(ctx, SessionKey("v1", "a1")))
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "user:abc", UserKey("abc"))
	assert.Equal(t, "session:abc:a1", SessionKey("abc", "a1"))
}
