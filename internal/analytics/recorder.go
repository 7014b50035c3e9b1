// Package analytics records how long each session spends on each wizard step.
// Nothing here affects the wizard; every failure is logged and dropped.
package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

// Store appends completed step events.
type Store interface {
	Append(ctx context.Context, event models.StepEvent) error
}

type openStep struct {
	number    int
	name      string
	startedAt time.Time
}

// Recorder tracks the open step of one session token.
type Recorder struct {
	caseID  id.CaseID
	token   id.SessionID
	store   Store
	logger  *slog.Logger
	metrics *Metrics

	mu   sync.Mutex
	open *openStep
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(caseID id.CaseID, token id.SessionID, store Store, opts ...Option) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("analytics store is required")
	}
	r := &Recorder{
		caseID: caseID,
		token:  token,
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// StartStep completes whatever step is open and opens number.
func (r *Recorder) StartStep(ctx context.Context, number int, name string) {
	now := requestcontext.Now(ctx)
	r.mu.Lock()
	prev := r.open
	r.open = &openStep{number: number, name: name, startedAt: now}
	r.mu.Unlock()

	if prev != nil {
		r.record(ctx, *prev, now)
	}
}

// CompleteStep closes the open step. Without one it does nothing.
func (r *Recorder) CompleteStep(ctx context.Context) {
	now := requestcontext.Now(ctx)
	r.mu.Lock()
	prev := r.open
	r.open = nil
	r.mu.Unlock()

	if prev != nil {
		r.record(ctx, *prev, now)
	}
}

// Close completes any still-open step.
func (r *Recorder) Close(ctx context.Context) {
	r.CompleteStep(ctx)
}

// OpenStep returns the step currently being timed.
func (r *Recorder) OpenStep() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open == nil {
		return 0, false
	}
	return r.open.number, true
}

func (r *Recorder) record(ctx context.Context, step openStep, completedAt time.Time) {
	duration := completedAt.Sub(step.startedAt)
	if duration < 0 {
		duration = 0
	}
	event := models.StepEvent{
		ID:           uuid.New(),
		CaseID:       r.caseID,
		SessionToken: r.token,
		StepNumber:   step.number,
		StepName:     step.name,
		StartedAt:    step.startedAt,
		CompletedAt:  completedAt,
		DurationMs:   duration.Milliseconds(),
	}
	if r.metrics != nil {
		r.metrics.StepDuration.WithLabelValues(strconv.Itoa(step.number)).Observe(duration.Seconds())
	}
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "step analytics write failed",
			"case_id", r.caseID.String(),
			"session_id", r.token.String(),
			"step", step.number,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.WriteFailures.Inc()
		}
	}
}
