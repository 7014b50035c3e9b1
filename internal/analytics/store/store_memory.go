// Package store holds step analytics stores.
package store

import (
	"context"
	"sync"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.Mutex
	events []models.StepEvent
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event models.StepEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByCase returns the case's events in append order.
func (s *InMemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]models.StepEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StepEvent
	for _, e := range s.events {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}
