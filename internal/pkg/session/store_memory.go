package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used by tests and by
// redis-less development setups.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Save creates or replaces the session under its token.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s.Token == "" {
		return fmt.Errorf("session: missing token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ttlOf(s) <= 0 {
		delete(m.sessions, s.Token)
		return nil
	}

	m.sessions[s.Token] = *s
	return nil
}

// Get returns the session for a token, or nil when absent or expired.
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, nil
	}

	copied := s
	return &copied, nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
