package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(NewMemoryStore(), time.Hour)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	key, err := m.Create(ctx, ScopeUser, Session{UserID: 7, Username: "alice", Email: "alice@x.com", Role: "user"})
	require.NoError(t, err)
	assert.Len(t, key, 64, "opaque key is 32 random bytes hex encoded")

	s, ok, err := m.Get(ctx, ScopeUser, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(7), s.UserID)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, "user", s.Role)
}

func TestManagerIdleTimeout(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	key, err := m.Create(ctx, ScopeUser, Session{UserID: 7, Username: "alice"})
	require.NoError(t, err)

	t.Run("still live just inside the timeout", func(t *testing.T) {
		*now = now.Add(3599 * time.Second)
		_, ok, err := m.Get(ctx, ScopeUser, key)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired and purged past the timeout", func(t *testing.T) {
		*now = now.Add(2 * time.Second) // 3601s after creation
		_, ok, err := m.Get(ctx, ScopeUser, key)
		require.NoError(t, err)
		assert.False(t, ok)

		// The expired session was removed from the store, not just hidden.
		_, present, err := m.store.Get(ctx, ScopeUser, key)
		require.NoError(t, err)
		assert.False(t, present)
	})
}

func TestManagerScopesAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	userKey, err := m.Create(ctx, ScopeUser, Session{UserID: 1, Username: "root", Role: "admin"})
	require.NoError(t, err)
	adminKey, err := m.Create(ctx, ScopeAdmin, Session{UserID: 1, Username: "root", Role: "admin"})
	require.NoError(t, err)

	// A user-scope key never resolves in the admin scope and vice versa.
	_, ok, err := m.Get(ctx, ScopeAdmin, userKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Destroy(ctx, ScopeUser, userKey))
	_, ok, err = m.Get(ctx, ScopeAdmin, adminKey)
	require.NoError(t, err)
	assert.True(t, ok, "destroying the user session leaves the admin session live")
}

func TestManagerDestroyIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	key, err := m.Create(ctx, ScopeUser, Session{UserID: 7})
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, ScopeUser, key))
	require.NoError(t, m.Destroy(ctx, ScopeUser, key), "second destroy is a no-op success")
	require.NoError(t, m.Destroy(ctx, ScopeUser, "unknown-key"))
	require.NoError(t, m.Destroy(ctx, ScopeUser, ""))
}
