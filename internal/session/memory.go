package session

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/filecms/internal/model"
)

var _ model.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = copySession(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(id)
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *MemoryStore) SetUser(_ context.Context, id string, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(id)
	if !ok {
		return model.ErrSessionNotFound
	}
	s.SignedInUser = username
	m.sessions[id] = s
	return nil
}

func (m *MemoryStore) SetFlash(_ context.Context, id string, flash model.Flash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(id)
	if !ok {
		return model.ErrSessionNotFound
	}
	s.Flash = &flash
	m.sessions[id] = s
	return nil
}

func (m *MemoryStore) PopFlash(_ context.Context, id string) (*model.Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(id)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	flash := s.Flash
	s.Flash = nil
	m.sessions[id] = s
	return flash, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// live must be called with mu held.
func (m *MemoryStore) live(id string) (model.Session, bool) {
	s, ok := m.sessions[id]
	if !ok || !s.ExpiresAt.After(m.now()) {
		return model.Session{}, false
	}
	return s, true
}

func copySession(s model.Session) model.Session {
	if s.Flash != nil {
		flash := *s.Flash
		s.Flash = &flash
	}
	return s
}
