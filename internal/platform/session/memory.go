package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory, keyed by the id from
// WithID. An unscoped context uses the empty id.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[IDFromContext(ctx)]
	if !ok {
		return nil, ErrNoSession
	}
	cp := *s
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	m.sessions[IDFromContext(ctx)] = &cp
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, IDFromContext(ctx))
	return nil
}
