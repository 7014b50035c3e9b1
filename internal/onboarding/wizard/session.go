// Package wizard ties one open onboarding case to its collaborators: the
// aggregate, progress, auto-fill, auto-save, step analytics and presence.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autofill"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
)

// Session owns the aggregate of one case for one editor. Mutations are applied
// in call order; persistence follows through the synchronizer.
type Session struct {
	caseID   id.CaseID
	token    id.SessionID
	steps    []progress.StepConfig
	saver    *autosave.Synchronizer
	recorder *analytics.Recorder
	presence Presence
	logger   *slog.Logger

	mu     sync.Mutex
	data   models.OnboardingData
	closed bool
}

func (s *Session) CaseID() id.CaseID   { return s.caseID }
func (s *Session) Token() id.SessionID { return s.token }

// Data returns a copy of the current aggregate.
func (s *Session) Data() models.OnboardingData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Mutate applies mutations in order. When the contact changed, auto-fill
// runs against the result before it is handed to auto-save.
func (s *Session) Mutate(ctx context.Context, mutations ...models.Mutation) (models.OnboardingData, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.OnboardingData{}, errSessionClosed
	}
	before := s.data.ContactInfo
	next := s.data
	for _, m := range mutations {
		if m != nil {
			next = m(next)
		}
	}
	if next.ContactInfo != before {
		next = s.autofillLocked(ctx, next)
	}
	s.data = next
	out := next.Clone()
	// Observe under s.mu so the synchronizer sees snapshots in apply order.
	s.saver.Observe(out)
	s.mu.Unlock()
	return out, nil
}

// UpdateContact replaces the contact and returns the auto-fill patch that
// followed from it.
func (s *Session) UpdateContact(ctx context.Context, contact models.ContactInfo) (models.Patch, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.Patch{}, errSessionClosed
	}
	next := models.WithContact(contact)(s.data)
	patch := autofill.DeriveUpdates(contact.Role, contact, next)
	if !patch.IsEmpty() {
		next = models.Apply(next, patch)
		s.logPatch(ctx, patch)
	}
	s.data = next
	s.saver.Observe(next.Clone())
	s.mu.Unlock()
	return patch, nil
}

func (s *Session) autofillLocked(ctx context.Context, data models.OnboardingData) models.OnboardingData {
	patch := autofill.DeriveUpdates(data.ContactInfo.Role, data.ContactInfo, data)
	if patch.IsEmpty() {
		return data
	}
	s.logPatch(ctx, patch)
	return models.Apply(data, patch)
}

func (s *Session) logPatch(ctx context.Context, patch models.Patch) {
	s.logger.DebugContext(ctx, "auto-fill applied",
		"case_id", s.caseID.String(),
		"owners", len(patch.AppendOwners),
		"authorized_persons", len(patch.AppendAuthorizedPersons),
		"locations", len(patch.AppendLocations),
		"location_contacts", len(patch.LocationContacts),
		"technical_contact", patch.TechnicalContact != nil,
	)
}

// GoToStep marks step visited, starts timing it and tells collaborators
// which step this editor is on.
func (s *Session) GoToStep(ctx context.Context, step int) (progress.StepProgress, error) {
	if step < 0 || step >= len(s.steps) {
		return progress.StepProgress{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("step %d out of range [0,%d)", step, len(s.steps)))
	}
	data, err := s.Mutate(ctx, models.Visit(step))
	if err != nil {
		return progress.StepProgress{}, err
	}
	if s.recorder != nil {
		s.recorder.StartStep(ctx, step, s.steps[step].Name)
	}
	if s.presence != nil {
		if err := s.presence.SetStep(ctx, s.token, step); err != nil {
			s.logger.WarnContext(ctx, "presence step update failed",
				"session_id", s.token.String(), "step", step, "error", err)
		}
	}
	sp, _ := progress.Step(data, s.steps, step)
	return sp, nil
}

// Progress recomputes completion from the current aggregate.
func (s *Session) Progress() progress.Overview {
	return progress.Calculate(s.Data(), s.steps)
}

// SaveState reports the synchronizer state and its last batch error.
func (s *Session) SaveState() (autosave.State, error) {
	return s.saver.State(), s.saver.LastError()
}

// ForceSave writes pending changes without waiting for the debounce window.
func (s *Session) ForceSave(ctx context.Context) error {
	return s.saver.ForceSave(ctx)
}

// Close flushes pending changes and releases the session's collaborators.
// A flush failure is returned; teardown still completes.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.saver.ForceSave(ctx)
	if err != nil && !errors.Is(err, autosave.ErrClosed) {
		s.logger.WarnContext(ctx, "final auto-save failed", "case_id", s.caseID.String(), "error", err)
	} else {
		err = nil
	}
	s.saver.Close()
	if s.recorder != nil {
		s.recorder.Close(ctx)
	}
	if s.presence != nil {
		s.presence.Unregister(ctx, s.token)
	}
	return err
}

var errSessionClosed = dErrors.New(dErrors.CodeConflict, "wizard session is closed")
