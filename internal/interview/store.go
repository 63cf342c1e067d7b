package interview

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements SessionStore interface with in-memory storage
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Put records a session under its ID. Identifiers are never reused.
func (s *InMemoryStore) Put(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return NewConflictError(session.ID, "Session already exists")
	}

	s.sessions[session.ID] = session
	return nil
}

// Get retrieves a session by ID
func (s *InMemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, NewSessionNotFoundError(sessionID)
	}

	return session, nil
}

// Delete removes a session
func (s *InMemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return NewSessionNotFoundError(sessionID)
	}

	delete(s.sessions, sessionID)
	return nil
}

// List returns every session ordered by start time
func (s *InMemoryStore) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

// Len returns the number of stored sessions
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ SessionStore = (*InMemoryStore)(nil)
