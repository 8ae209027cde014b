// Package lock provides short-lived, best-effort mutual exclusion keyed by string.
package lock

import (
	"context"
	"sync"
)

// Locker hands out exclusive, non-blocking locks.
type Locker interface {
	// TryLock returns ok=false without waiting when the key is already held.
	// The returned unlock func is safe to call more than once.
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
	// Held reports whether someone currently holds key.
	Held(ctx context.Context, key string) (bool, error)
}

// MemoryLocker keeps locks in process memory. Used when no Redis is configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (m *MemoryLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.held[key]; taken {
		return func() {}, false, nil
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, true, nil
}

func (m *MemoryLocker) Held(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, taken := m.held[key]
	return taken, nil
}
