package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	presencemodels "github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

// CaseLoader reads the persisted aggregate of a case.
type CaseLoader interface {
	LoadCase(ctx context.Context, caseID id.CaseID) (models.OnboardingData, error)
}

// Presence is the slice of the presence tracker a session needs.
type Presence interface {
	Register(ctx context.Context, reg presencemodels.Registration) (*presencemodels.Session, error)
	Start(ctx context.Context, token id.SessionID)
	SetStep(ctx context.Context, token id.SessionID, step int) error
	Unregister(ctx context.Context, token id.SessionID)
}

// OpenRequest identifies the editor opening a case.
type OpenRequest struct {
	CaseID      id.CaseID
	UserID      id.UserID
	DisplayName string
	UserAgent   string
}

// Registry holds the open wizard sessions of this process.
type Registry struct {
	store        autosave.Store
	loader       CaseLoader
	steps        []progress.StepConfig
	presence     Presence
	analytics    analytics.Store
	analyticsOpt []analytics.Option
	saveOpts     []autosave.Option
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithSteps(steps []progress.StepConfig) Option {
	return func(r *Registry) {
		if len(steps) > 0 {
			r.steps = steps
		}
	}
}

func WithPresence(p Presence) Option {
	return func(r *Registry) {
		r.presence = p
	}
}

func WithAnalytics(store analytics.Store, opts ...analytics.Option) Option {
	return func(r *Registry) {
		r.analytics = store
		r.analyticsOpt = opts
	}
}

// WithAutosaveOptions applies opts to every session's synchronizer.
func WithAutosaveOptions(opts ...autosave.Option) Option {
	return func(r *Registry) {
		r.saveOpts = append(r.saveOpts, opts...)
	}
}

func NewRegistry(store autosave.Store, loader CaseLoader, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.New("autosave store is required")
	}
	if loader == nil {
		return nil, errors.New("case loader is required")
	}
	r := &Registry{
		store:    store,
		loader:   loader,
		steps:    progress.DefaultSteps(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessions: make(map[id.SessionID]*Session),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Steps returns the step configuration sessions are measured against.
func (r *Registry) Steps() []progress.StepConfig {
	return r.steps
}

// Open loads the case (a case never saved starts empty), registers presence
// and returns a session ready for mutations.
func (r *Registry) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	if req.CaseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "case id is required")
	}
	data, err := r.loader.LoadCase(ctx, req.CaseID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		data = models.New(req.CaseID)
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load case")
	}

	token := id.NewSessionID()
	if r.presence != nil {
		registered, err := r.presence.Register(ctx, presencemodels.Registration{
			Token:       token,
			CaseID:      req.CaseID,
			UserID:      req.UserID,
			DisplayName: req.DisplayName,
			UserAgent:   req.UserAgent,
			CurrentStep: data.CurrentStep,
		})
		if err != nil {
			r.logger.WarnContext(ctx, "presence registration failed", "case_id", req.CaseID.String(), "error", err)
		} else {
			token = registered.Token
			r.presence.Start(ctx, token)
		}
	}

	opts := append([]autosave.Option{}, r.saveOpts...)
	opts = append(opts,
		autosave.WithLogger(r.logger),
		autosave.WithSessionID(token),
		autosave.WithBaseline(data),
	)
	saver, err := autosave.New(req.CaseID, r.store, opts...)
	if err != nil {
		return nil, err
	}

	session := &Session{
		caseID:   req.CaseID,
		token:    token,
		steps:    r.steps,
		saver:    saver,
		presence: r.presence,
		logger:   r.logger,
		data:     data,
	}
	if r.analytics != nil {
		session.recorder, err = analytics.NewRecorder(req.CaseID, token, r.analytics,
			append([]analytics.Option{analytics.WithLogger(r.logger)}, r.analyticsOpt...)...)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.sessions[token] = session
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "wizard session opened",
		"case_id", req.CaseID.String(),
		"session_id", token.String(),
	)
	return session, nil
}

func (r *Registry) Get(token id.SessionID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "wizard session not found")
	}
	return session, nil
}

// Close flushes and removes the session.
func (r *Registry) Close(ctx context.Context, token id.SessionID) error {
	r.mu.Lock()
	session, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "wizard session not found")
	}
	return session.Close(ctx)
}

// CloseAll flushes every open session, used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for token, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, token)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
