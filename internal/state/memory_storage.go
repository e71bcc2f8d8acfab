package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps dialog sessions in process memory. Used when Redis
// is not configured; sessions are lost on restart.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStorage initializes an in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*Session),
	}
}

// GetSession returns the stored session or ErrSessionNotFound when absent.
func (s *MemoryStorage) GetSession(_ context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// SetSession saves a copy of the provided session.
func (s *MemoryStorage) SetSession(_ context.Context, userID int64, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[userID] = &copied
	return nil
}

// ClearSession removes the stored session for the given user.
func (s *MemoryStorage) ClearSession(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// Sessions returns a snapshot of every stored session.
func (s *MemoryStorage) Sessions(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		copied := *session
		result = append(result, &copied)
	}

	return result, nil
}
