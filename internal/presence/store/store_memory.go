// Package store holds presence session stores.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionID]models.Session)}
}

func (s *InMemoryStore) Save(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *InMemoryStore) Touch(_ context.Context, token id.SessionID, now, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok || !session.Active(now) {
		return sentinel.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	s.sessions[token] = session
	return nil
}

func (s *InMemoryStore) SetStep(_ context.Context, token id.SessionID, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return sentinel.ErrNotFound
	}
	session.CurrentStep = step
	s.sessions[token] = session
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, token id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *InMemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Session
	for _, session := range s.sessions {
		if session.CaseID == caseID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, session := range s.sessions {
		if !session.Active(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}
