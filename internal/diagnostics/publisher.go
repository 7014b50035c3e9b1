package diagnostics

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

const (
	defaultBufferSize = 256
	defaultRatePerSec = 20
	defaultBurst      = 40
)

// Publisher hands entries to a Worker through a bounded channel. A full
// buffer or an exhausted rate budget drops the entry.
type Publisher struct {
	inbox   chan Entry
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithRate caps accepted entries per second. A non-positive rate disables the cap.
func WithRate(perSec float64, burst int) Option {
	return func(p *Publisher) {
		if perSec <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan Entry, n)
		}
	}
}

func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{
		inbox:   make(chan Entry, defaultBufferSize),
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultBurst),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report enqueues entry without blocking.
func (p *Publisher) Report(ctx context.Context, entry Entry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = requestcontext.Now(ctx)
	}
	if !p.limiter.Allow() {
		p.drop(entry, "rate_limited")
		return
	}
	select {
	case p.inbox <- entry:
	default:
		p.drop(entry, "buffer_full")
	}
}

// Inbox is the channel a Worker consumes.
func (p *Publisher) Inbox() <-chan Entry {
	return p.inbox
}

func (p *Publisher) drop(entry Entry, reason string) {
	p.logger.Warn("diagnostic entry dropped",
		"case_id", entry.CaseID.String(),
		"classification", string(entry.Classification),
		"reason", reason,
	)
	if p.metrics != nil {
		p.metrics.IncDropped(reason)
	}
}

// Worker consumes entries from a channel and persists them. Store failures
// are logged and the worker keeps going.
type Worker struct {
	store  Store
	inbox  <-chan Entry
	logger *slog.Logger
	// writeTimeout bounds each Append so a stuck store cannot stall the queue.
	writeTimeout time.Duration
}

func NewWorker(store Store, inbox <-chan Entry, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Worker{store: store, inbox: inbox, logger: logger, writeTimeout: 5 * time.Second}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.write(ctx, entry)
		}
	}
}

func (w *Worker) write(ctx context.Context, entry Entry) {
	ctx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()
	if err := w.store.Append(ctx, entry); err != nil {
		w.logger.Warn("failed to persist diagnostic entry",
			"case_id", entry.CaseID.String(),
			"classification", string(entry.Classification),
			"error", err,
		)
	}
}
