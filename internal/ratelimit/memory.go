package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded map implementation of Store for tests
// and for running without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func memKey(scope Scope, ip string) string { return string(scope) + ":" + ip }

func (m *MemoryStore) Get(_ context.Context, scope Scope, ip string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[memKey(scope, ip)]
	return e, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, scope Scope, ip string, e Entry, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(scope, ip)] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, scope Scope, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memKey(scope, ip))
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, scope Scope, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := string(scope) + ":"
	for k, e := range m.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix && e.LastAttempt.Before(cutoff) {
			delete(m.entries, k)
		}
	}
	return nil
}
