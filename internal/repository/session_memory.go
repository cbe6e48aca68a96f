package repository

import (
	"context"
	"sync"
	"time"

	pkgerrors "schedule-maker/pkg/errors"

	"schedule-maker/internal/model"
)

// memorySessionStore 进程内会话存储（未启用 Redis 时使用）
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	now      func() time.Time
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

func (m *memorySessionStore) Create(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeExpiredLocked()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

func (m *memorySessionStore) Update(_ context.Context, id string, fn func(s *model.Session) error) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.liveLocked(id)
	if err != nil {
		return nil, err
	}
	next := s.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	m.sessions[id] = next
	return next.Clone(), nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return pkgerrors.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) liveLocked(id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, id)
		return nil, pkgerrors.ErrSessionNotFound
	}
	return s, nil
}

func (m *memorySessionStore) purgeExpiredLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
}
