package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded map implementation of Store.  It ignores
// the TTL hint entirely and relies on the Manager's lazy expiry check,
// which keeps tests deterministic under a fake clock.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Put(_ context.Context, scope Scope, key string, s Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[redisKey(scope, key)] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, scope Scope, key string) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[redisKey(scope, key)]
	return s, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, scope Scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, redisKey(scope, key))
	return nil
}
