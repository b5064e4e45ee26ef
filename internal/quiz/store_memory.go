package quiz

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	cfg      storeConfig
	sessions map[string]Session
}

// NewInMemoryStore returns a Store that lives as long as the process.
func NewInMemoryStore(opts ...StoreOption) Store {
	return &memoryStore{
		cfg:      newStoreConfig(opts),
		sessions: map[string]Session{},
	}
}

func (m *memoryStore) Create(_ context.Context, entries map[string]KeyEntry) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := m.cfg.newID()
		if _, taken := m.sessions[id]; taken || id == "" {
			continue
		}
		s := Session{ID: id, CreatedAt: m.cfg.now(), Entries: maps.Clone(entries)}
		if s.Entries == nil {
			s.Entries = map[string]KeyEntry{}
		}
		m.sessions[id] = s
		return s, nil
	}
	return Session{}, fmt.Errorf("allocate session id: %d attempts collided", maxIDAttempts)
}

func (m *memoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || m.cfg.expired(s.CreatedAt) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryStore) evictLocked() {
	cutoff, ok := m.cfg.eviction.Cutoff(m.cfg.now())
	if !ok {
		return
	}
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
