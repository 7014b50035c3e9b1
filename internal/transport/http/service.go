package httptransport

import (
	"context"
	"errors"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/wizard"
	presencemodels "github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
)

// SessionView is a snapshot of an open wizard session.
type SessionView struct {
	Token     id.SessionID
	CaseID    id.CaseID
	Data      models.OnboardingData
	Progress  progress.Overview
	SaveState autosave.State
	SaveError error
}

// PresenceView lists the other editors on a case.
type PresenceView struct {
	Active    []presencemodels.Session
	Conflicts []presencemodels.Conflict
}

// PresenceLister is the read side of the presence tracker.
type PresenceLister interface {
	ListActive(ctx context.Context, caseID id.CaseID, self id.SessionID) ([]presencemodels.Session, error)
	Conflicts(ctx context.Context, caseID id.CaseID, self id.SessionID) []presencemodels.Conflict
}

// WizardService adapts the session registry to the Service the handler needs.
type WizardService struct {
	registry *wizard.Registry
	presence PresenceLister
}

// NewWizardService builds the adapter. presence may be nil when the process
// runs without a presence tracker.
func NewWizardService(registry *wizard.Registry, presence PresenceLister) (*WizardService, error) {
	if registry == nil {
		return nil, errors.New("wizard registry is required")
	}
	return &WizardService{registry: registry, presence: presence}, nil
}

func (s *WizardService) Open(ctx context.Context, req wizard.OpenRequest) (SessionView, error) {
	session, err := s.registry.Open(ctx, req)
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(session), nil
}

func (s *WizardService) Session(_ context.Context, token id.SessionID) (SessionView, error) {
	session, err := s.registry.Get(token)
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(session), nil
}

func (s *WizardService) Mutate(ctx context.Context, token id.SessionID, mutation models.Mutation) (SessionView, error) {
	session, err := s.registry.Get(token)
	if err != nil {
		return SessionView{}, err
	}
	if _, err := session.Mutate(ctx, mutation); err != nil {
		return SessionView{}, err
	}
	return viewOf(session), nil
}

func (s *WizardService) UpdateContact(ctx context.Context, token id.SessionID, contact models.ContactInfo) (SessionView, models.Patch, error) {
	session, err := s.registry.Get(token)
	if err != nil {
		return SessionView{}, models.Patch{}, err
	}
	patch, err := session.UpdateContact(ctx, contact)
	if err != nil {
		return SessionView{}, models.Patch{}, err
	}
	return viewOf(session), patch, nil
}

func (s *WizardService) GoToStep(ctx context.Context, token id.SessionID, step int) (progress.StepProgress, error) {
	session, err := s.registry.Get(token)
	if err != nil {
		return progress.StepProgress{}, err
	}
	return session.GoToStep(ctx, step)
}

func (s *WizardService) ForceSave(ctx context.Context, token id.SessionID) error {
	session, err := s.registry.Get(token)
	if err != nil {
		return err
	}
	if err := session.ForceSave(ctx); err != nil {
		if errors.Is(err, autosave.ErrClosed) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "session is closed")
		}
		return dErrors.Wrap(err, dErrors.CodePersistenceFailure, "save failed")
	}
	return nil
}

func (s *WizardService) Close(ctx context.Context, token id.SessionID) error {
	if err := s.registry.Close(ctx, token); err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodePersistenceFailure, "final save failed")
	}
	return nil
}

func (s *WizardService) Presence(ctx context.Context, token id.SessionID) (PresenceView, error) {
	session, err := s.registry.Get(token)
	if err != nil {
		return PresenceView{}, err
	}
	view := PresenceView{
		Active:    []presencemodels.Session{},
		Conflicts: []presencemodels.Conflict{},
	}
	if s.presence == nil {
		return view, nil
	}
	active, err := s.presence.ListActive(ctx, session.CaseID(), token)
	if err != nil {
		return PresenceView{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list active sessions")
	}
	view.Active = active
	view.Conflicts = s.presence.Conflicts(ctx, session.CaseID(), token)
	return view, nil
}

func viewOf(session *wizard.Session) SessionView {
	state, saveErr := session.SaveState()
	return SessionView{
		Token:     session.Token(),
		CaseID:    session.CaseID(),
		Data:      session.Data(),
		Progress:  session.Progress(),
		SaveState: state,
		SaveError: saveErr,
	}
}
