package presence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultJanitorSchedule = "@every 10m"

// Janitor deletes expired sessions on a cron schedule. Editors that closed
// their browser without unregistering leave rows behind until then.
type Janitor struct {
	cron    *cron.Cron
	store   Store
	now     func() time.Time
	timeout time.Duration
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.Mutex
	running bool
}

type JanitorOption func(*Janitor)

func WithJanitorLogger(logger *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if logger != nil {
			j.logger = logger
		}
	}
}

func WithJanitorMetrics(m *Metrics) JanitorOption {
	return func(j *Janitor) {
		j.metrics = m
	}
}

func WithJanitorClock(now func() time.Time) JanitorOption {
	return func(j *Janitor) {
		if now != nil {
			j.now = now
		}
	}
}

func NewJanitor(store Store, schedule string, opts ...JanitorOption) (*Janitor, error) {
	if store == nil {
		return nil, errors.New("presence store is required")
	}
	if schedule == "" {
		schedule = DefaultJanitorSchedule
	}
	j := &Janitor{
		cron:    cron.New(),
		store:   store,
		now:     time.Now,
		timeout: 30 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(j)
		}
	}
	if _, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.Sweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Sweep deletes every session expired at the janitor's current time.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	n, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		j.logger.WarnContext(ctx, "presence janitor sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "presence janitor removed expired sessions", "count", n)
	}
	if j.metrics != nil {
		j.metrics.ExpiredSwept.Add(float64(n))
	}
	return n, nil
}

func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.cron.Start()
}

// Stop waits for a running sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	<-j.cron.Stop().Done()
	j.running = false
}
