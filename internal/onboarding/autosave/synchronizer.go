// Package autosave persists a wizard session's aggregate after a quiet
// period, one batch at a time.
//
// A Synchronizer moves through Idle, Pending and Saving. Mutations that leave
// the content signature unchanged are ignored. A mutation arriving while a
// batch is in flight is queued and starts exactly one follow-up debounce once
// the batch resolves. Failed writes are never rolled back or retried on their
// own: the next edit or an explicit ForceSave writes them again.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/diagnostics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/scheduler"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

const (
	DefaultDebounce      = 2 * time.Second
	defaultBatchTimeout  = 15 * time.Second
	defaultMaxConcurrent = 8
)

// State is the synchronizer's position in its state machine.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// ErrClosed is returned by ForceSave after Close.
var ErrClosed = errors.New("synchronizer closed")

// DiagnosticsReporter receives persistence failures.
type DiagnosticsReporter interface {
	Report(ctx context.Context, entry diagnostics.Entry)
}

// ViewInvalidator drops cached read views of a case.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, caseID id.CaseID) error
}

// SavedHook runs after every successful batch with the aggregate it wrote.
type SavedHook func(ctx context.Context, caseID id.CaseID, data models.OnboardingData)

// FailureNotifier surfaces a failed batch to the user as a non-blocking notice.
type FailureNotifier func(err error)

type Synchronizer struct {
	caseID    id.CaseID
	sessionID id.SessionID
	store     Store

	sched         scheduler.Scheduler
	debounce      time.Duration
	batchTimeout  time.Duration
	maxConcurrent int

	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	diagnostics DiagnosticsReporter
	views       ViewInvalidator
	savedHooks  []SavedHook
	notify      FailureNotifier

	mu        sync.Mutex
	state     State
	timer     scheduler.Task
	timerGen  uint64
	latest    models.OnboardingData
	latestSig string
	savedSig  string
	persisted map[EntityRef]string
	queued    bool
	inflight  chan struct{}
	lastErr   error
	closed    bool
}

type Option func(*Synchronizer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// WithScheduler replaces the wall-clock scheduler; tests pass scheduler.Manual.
func WithScheduler(sched scheduler.Scheduler) Option {
	return func(s *Synchronizer) {
		if sched != nil {
			s.sched = sched
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithBatchTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.batchTimeout = d
		}
	}
}

func WithMaxConcurrentWrites(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

func WithSessionID(sessionID id.SessionID) Option {
	return func(s *Synchronizer) {
		s.sessionID = sessionID
	}
}

func WithDiagnostics(r DiagnosticsReporter) Option {
	return func(s *Synchronizer) {
		s.diagnostics = r
	}
}

func WithViewInvalidator(v ViewInvalidator) Option {
	return func(s *Synchronizer) {
		s.views = v
	}
}

func WithSavedHook(h SavedHook) Option {
	return func(s *Synchronizer) {
		if h != nil {
			s.savedHooks = append(s.savedHooks, h)
		}
	}
}

func WithFailureNotifier(n FailureNotifier) Option {
	return func(s *Synchronizer) {
		s.notify = n
	}
}

// WithBaseline marks data as already persisted, e.g. when a session resumes a
// case loaded from the store. Only later changes are written.
func WithBaseline(data models.OnboardingData) Option {
	return func(s *Synchronizer) {
		s.baseline(data)
	}
}

func New(caseID id.CaseID, store Store, opts ...Option) (*Synchronizer, error) {
	if caseID.IsNil() {
		return nil, fmt.Errorf("case id is required")
	}
	if store == nil {
		return nil, fmt.Errorf("autosave store is required")
	}
	s := &Synchronizer{
		caseID:        caseID,
		store:         store,
		sched:         scheduler.Real{},
		debounce:      DefaultDebounce,
		batchTimeout:  defaultBatchTimeout,
		maxConcurrent: defaultMaxConcurrent,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:        otel.Tracer("onboarding/autosave"),
		persisted:     make(map[EntityRef]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Synchronizer) baseline(data models.OnboardingData) {
	sig, err := Signature(data)
	if err != nil {
		return
	}
	ops, err := planBatch(s.caseID, s.store, data, nil)
	if err != nil {
		return
	}
	s.latest = data.Clone()
	s.latestSig = sig
	s.savedSig = sig
	for _, op := range ops {
		if op.digest != "" {
			s.persisted[op.ref] = op.digest
		}
	}
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the outcome of the most recent batch, nil after a success.
func (s *Synchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Observe records the aggregate after a mutation and (re)arms the debounce
// timer when its content changed.
func (s *Synchronizer) Observe(data models.OnboardingData) {
	sig, err := Signature(data)
	if err != nil {
		s.logger.Error("failed to sign aggregate", "case_id", s.caseID.String(), "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.latest = data.Clone()
	s.latestSig = sig

	switch s.state {
	case StateSaving:
		s.queued = true
	default:
		if sig == s.savedSig {
			s.cancelTimerLocked()
			s.state = StateIdle
			return
		}
		s.armLocked()
	}
}

// ForceSave writes the latest aggregate now, waiting for an in-flight batch
// first. It returns nil when nothing changed since the last successful save.
func (s *Synchronizer) ForceSave(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		if s.state != StateSaving {
			break
		}
		wait := s.inflight
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.cancelTimerLocked()
	s.queued = false
	if s.latestSig == s.savedSig && s.lastErr == nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil
	}
	data, sig := s.beginSaveLocked()
	s.mu.Unlock()

	err := s.save(ctx, data)
	s.finish(sig, err)
	return err
}

// Close cancels any pending timer. It does not flush; call ForceSave first.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.closed = true
	if s.state == StatePending {
		s.state = StateIdle
	}
}

func (s *Synchronizer) armLocked() {
	s.cancelTimerLocked()
	s.state = StatePending
	gen := s.timerGen
	s.timer = s.sched.AfterFunc(s.debounce, func() { s.fire(gen) })
}

// cancelTimerLocked also retires the current generation, so a callback that
// already fired but has not yet taken s.mu does nothing.
func (s *Synchronizer) cancelTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Synchronizer) beginSaveLocked() (models.OnboardingData, string) {
	s.state = StateSaving
	s.inflight = make(chan struct{})
	return s.latest, s.latestSig
}

// fire runs when the debounce timer expires.
func (s *Synchronizer) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || s.state != StatePending || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	data, sig := s.beginSaveLocked()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
	defer cancel()
	err := s.save(ctx, data)
	s.finish(sig, err)
}

func (s *Synchronizer) finish(sig string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.lastErr = err
	if err == nil {
		s.savedSig = sig
	}
	close(s.inflight)
	s.inflight = nil

	if s.queued && !s.closed {
		s.queued = false
		if s.latestSig != s.savedSig {
			s.armLocked()
		}
	}
}

// save runs one batch. Writes go out concurrently; every failure is
// collected and reported as a single BatchError.
func (s *Synchronizer) save(ctx context.Context, data models.OnboardingData) error {
	start := s.sched.Now()

	s.mu.Lock()
	snapshot := make(map[EntityRef]string, len(s.persisted))
	for k, v := range s.persisted {
		snapshot[k] = v
	}
	s.mu.Unlock()

	ops, err := planBatch(s.caseID, s.store, data, snapshot)
	if err != nil {
		s.logger.Error("failed to plan auto-save batch", "case_id", s.caseID.String(), "error", err)
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "autosave.batch", trace.WithAttributes(
		attribute.String("case_id", s.caseID.String()),
		attribute.Int("operations", len(ops)),
	))
	defer span.End()

	results := make([]error, len(ops))
	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for i, op := range ops {
		g.Go(func() error {
			results[i] = s.runOp(ctx, op)
			return nil
		})
	}
	_ = g.Wait()

	var failed, succeeded []EntityRef
	var errs []error
	s.mu.Lock()
	for i, op := range ops {
		if results[i] != nil {
			failed = append(failed, op.ref)
			errs = append(errs, fmt.Errorf("%s: %w", op.ref, results[i]))
			continue
		}
		succeeded = append(succeeded, op.ref)
		if op.digest != "" {
			s.persisted[op.ref] = op.digest
		}
		for _, ref := range op.forget {
			delete(s.persisted, ref)
		}
	}
	s.mu.Unlock()

	elapsed := s.sched.Now().Sub(start)
	if len(failed) > 0 {
		batchErr := &BatchError{Failed: failed, Succeeded: succeeded, Err: errors.Join(errs...)}
		span.RecordError(batchErr)
		span.SetStatus(codes.Error, "auto-save batch failed")
		s.reportFailure(ctx, data, batchErr)
		if s.metrics != nil {
			s.metrics.observeBatch("failure", elapsed)
		}
		return batchErr
	}

	if s.metrics != nil {
		s.metrics.observeBatch("success", elapsed)
	}
	s.logger.Debug("auto-save batch persisted",
		"case_id", s.caseID.String(),
		"entities", len(succeeded),
	)
	s.afterSave(ctx, data)
	return nil
}

func (s *Synchronizer) runOp(ctx context.Context, op operation) error {
	ctx, span := s.tracer.Start(ctx, "autosave.write", trace.WithAttributes(
		attribute.String("entity", string(op.ref.Kind)),
		attribute.String("entity_id", op.ref.ID),
	))
	defer span.End()

	err := op.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		if s.metrics != nil {
			s.metrics.incEntityFailure(op.ref.Kind)
		}
	}
	return err
}

func (s *Synchronizer) reportFailure(ctx context.Context, data models.OnboardingData, err *BatchError) {
	s.logger.Error("auto-save batch failed",
		"case_id", s.caseID.String(),
		"session_id", s.sessionID.String(),
		"step", data.CurrentStep,
		"failed", len(err.Failed),
		"succeeded", len(err.Succeeded),
		"error", err.Err,
	)
	if s.diagnostics != nil {
		s.diagnostics.Report(ctx, diagnostics.Entry{
			CaseID:         s.caseID,
			SessionID:      s.sessionID,
			Step:           data.CurrentStep,
			Classification: diagnostics.ClassPersistence,
			Message:        err.Error(),
		})
	}
	if s.notify != nil {
		s.notify(err)
	}
}

func (s *Synchronizer) afterSave(ctx context.Context, data models.OnboardingData) {
	if s.views != nil {
		if err := s.views.Invalidate(ctx, s.caseID); err != nil {
			s.logger.Warn("failed to invalidate case view", "case_id", s.caseID.String(), "error", err)
		}
	}
	for _, hook := range s.savedHooks {
		hook(ctx, s.caseID, data)
	}
}
