package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Manager enforces session lifecycle policy over a Store: opaque key
// generation, lazy idle-timeout expiry, and idempotent destruction.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// newKey returns a 64-char hex string from 32 random bytes.  The key is
// the only thing the client ever holds.
func newKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// TTL exposes the configured idle timeout, used for cookie max-age.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create stores a new session for the principal and returns its opaque key.
func (m *Manager) Create(ctx context.Context, scope Scope, s Session) (string, error) {
	key, err := newKey()
	if err != nil {
		return "", err
	}
	s.CreatedAt = m.now().UTC()
	if err := m.store.Put(ctx, scope, key, s, m.ttl); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the session for a key if it exists and has not idled out.
// Expiry is computed from the creation timestamp on each access; an
// expired session is purged and reported as absent, so the caller treats
// the request as anonymous.
func (m *Manager) Get(ctx context.Context, scope Scope, key string) (Session, bool, error) {
	if key == "" {
		return Session{}, false, nil
	}
	s, ok, err := m.store.Get(ctx, scope, key)
	if err != nil || !ok {
		return Session{}, false, err
	}
	if m.now().Sub(s.CreatedAt) > m.ttl {
		_ = m.store.Delete(ctx, scope, key)
		return Session{}, false, nil
	}
	return s, true, nil
}

// Destroy removes a session.  Destroying an unknown or already-destroyed
// key is a no-op success, which makes logout idempotent.
func (m *Manager) Destroy(ctx context.Context, scope Scope, key string) error {
	if key == "" {
		return nil
	}
	return m.store.Delete(ctx, scope, key)
}
