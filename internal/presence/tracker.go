// Package presence tracks which editors currently have a case open. It only
// informs collaborators; it never serializes edits.
package presence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/scheduler"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

const (
	DefaultSessionTTL        = 24 * time.Hour
	DefaultHeartbeatInterval = 30 * time.Second
)

// Store persists presence sessions.
type Store interface {
	Save(ctx context.Context, session models.Session) error
	// Touch extends an unexpired session to expiresAt. A session already past
	// its expiry at now is reported as sentinel.ErrNotFound.
	Touch(ctx context.Context, token id.SessionID, now, expiresAt time.Time) error
	SetStep(ctx context.Context, token id.SessionID, step int) error
	Delete(ctx context.Context, token id.SessionID) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]models.Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Tracker registers sessions, keeps them alive with a heartbeat loop and
// lists the other editors on a case.
type Tracker struct {
	store    Store
	sched    scheduler.Scheduler
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	metrics  *Metrics

	mu    sync.Mutex
	loops map[id.SessionID]*heartbeatLoop
}

type heartbeatLoop struct {
	task scheduler.Task
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// WithScheduler replaces the wall clock, mainly for tests.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sched = s
		}
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func New(store Store, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("presence store is required")
	}
	t := &Tracker{
		store:    store,
		sched:    scheduler.Real{},
		ttl:      DefaultSessionTTL,
		interval: DefaultHeartbeatInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		loops:    make(map[id.SessionID]*heartbeatLoop),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// Register records a session expiring one TTL from now. A zero token is
// replaced with a fresh one.
func (t *Tracker) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	if reg.CaseID.IsNil() {
		return nil, errors.New("case id is required")
	}
	token := reg.Token
	if token.IsNil() {
		token = id.NewSessionID()
	}
	now := t.sched.Now()
	session := models.Session{
		Token:       token,
		CaseID:      reg.CaseID,
		UserID:      reg.UserID,
		DisplayName: reg.DisplayName,
		Device:      DeviceLabel(reg.UserAgent),
		CurrentStep: reg.CurrentStep,
		CreatedAt:   now,
		ExpiresAt:   now.Add(t.ttl),
	}
	if err := t.store.Save(ctx, session); err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.Registered.Inc()
	}
	t.logger.DebugContext(ctx, "presence registered",
		"case_id", session.CaseID.String(),
		"session_id", token.String(),
		"device", session.Device,
	)
	return &session, nil
}

// Heartbeat slides the session's expiry one TTL past now.
func (t *Tracker) Heartbeat(ctx context.Context, token id.SessionID) error {
	now := t.sched.Now()
	return t.store.Touch(ctx, token, now, now.Add(t.ttl))
}

// SetStep records the step the editor is looking at.
func (t *Tracker) SetStep(ctx context.Context, token id.SessionID, step int) error {
	return t.store.SetStep(ctx, token, step)
}

// Unregister stops the heartbeat loop and removes the session. Failures are
// logged and not retried; the session expires on its own.
func (t *Tracker) Unregister(ctx context.Context, token id.SessionID) {
	t.Stop(token)
	if err := t.store.Delete(ctx, token); err != nil {
		t.logger.WarnContext(ctx, "presence unregister failed", "session_id", token.String(), "error", err)
		return
	}
	if t.metrics != nil {
		t.metrics.Unregistered.Inc()
	}
}

// ListActive returns unexpired sessions on caseID other than self, oldest first.
func (t *Tracker) ListActive(ctx context.Context, caseID id.CaseID, self id.SessionID) ([]models.Session, error) {
	sessions, err := t.store.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	now := t.sched.Now()
	active := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Token == self || !s.Active(now) {
			continue
		}
		active = append(active, s)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active, nil
}

// Conflicts reports fields edited by more than one session. No field-level
// comparison exists yet, so the result is always empty.
func (t *Tracker) Conflicts(_ context.Context, _ id.CaseID, _ id.SessionID) []models.Conflict {
	return []models.Conflict{}
}

// Start runs the heartbeat loop for token until Stop or Unregister. Calling
// Start again for the same token restarts the loop.
func (t *Tracker) Start(ctx context.Context, token id.SessionID) {
	base := context.WithoutCancel(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if loop, ok := t.loops[token]; ok {
		loop.task.Stop()
	}
	loop := &heartbeatLoop{}
	t.loops[token] = loop
	t.scheduleLocked(base, token, loop)
	t.setLoopGaugeLocked()
}

func (t *Tracker) scheduleLocked(ctx context.Context, token id.SessionID, loop *heartbeatLoop) {
	loop.task = t.sched.AfterFunc(t.interval, func() {
		t.beat(ctx, token, loop)
	})
}

func (t *Tracker) current(token id.SessionID, loop *heartbeatLoop) bool {
	return t.loops[token] == loop
}

func (t *Tracker) beat(ctx context.Context, token id.SessionID, loop *heartbeatLoop) {
	t.mu.Lock()
	live := t.current(token, loop)
	t.mu.Unlock()
	if !live {
		return
	}

	if err := t.Heartbeat(ctx, token); err != nil {
		t.logger.WarnContext(ctx, "presence heartbeat failed", "session_id", token.String(), "error", err)
		if t.metrics != nil {
			t.metrics.HeartbeatFailures.Inc()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current(token, loop) {
		t.scheduleLocked(ctx, token, loop)
	}
}

// Stop ends the heartbeat loop for token without touching the store.
func (t *Tracker) Stop(token id.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if loop, ok := t.loops[token]; ok {
		loop.task.Stop()
		delete(t.loops, token)
	}
	t.setLoopGaugeLocked()
}

// Close stops every heartbeat loop.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for token, loop := range t.loops {
		loop.task.Stop()
		delete(t.loops, token)
	}
	t.setLoopGaugeLocked()
}

func (t *Tracker) setLoopGaugeLocked() {
	if t.metrics != nil {
		t.metrics.HeartbeatLoops.Set(float64(len(t.loops)))
	}
}
