// Package viewcache keeps a read-through copy of assembled case aggregates
// so reopening a wizard does not fan out across every onboarding table.
package viewcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

const (
	keyPrefix  = "onboarding:view:"
	DefaultTTL = 10 * time.Minute
)

// Loader reads the authoritative aggregate.
type Loader interface {
	LoadCase(ctx context.Context, caseID id.CaseID) (models.OnboardingData, error)
}

// Backend stores encoded views by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache serves LoadCase from the backend and falls through to the loader on
// a miss. Backend faults degrade to uncached reads.
type Cache struct {
	loader  Loader
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func New(loader Loader, backend Backend, opts ...Option) (*Cache, error) {
	if loader == nil {
		return nil, errors.New("case loader is required")
	}
	if backend == nil {
		return nil, errors.New("view cache backend is required")
	}
	c := &Cache{
		loader:  loader,
		backend: backend,
		ttl:     DefaultTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func key(caseID id.CaseID) string {
	return keyPrefix + caseID.String()
}

func (c *Cache) LoadCase(ctx context.Context, caseID id.CaseID) (models.OnboardingData, error) {
	raw, ok, err := c.backend.Get(ctx, key(caseID))
	if err != nil {
		c.logger.WarnContext(ctx, "view cache read failed", "case_id", caseID.String(), "error", err)
	}
	if ok {
		var data models.OnboardingData
		if err := json.Unmarshal(raw, &data); err == nil {
			c.record("hit")
			return data, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached view", "case_id", caseID.String())
	}
	c.record("miss")

	data, err := c.loader.LoadCase(ctx, caseID)
	if err != nil {
		return models.OnboardingData{}, err
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return models.OnboardingData{}, fmt.Errorf("encode case view: %w", err)
	}
	if err := c.backend.Set(ctx, key(caseID), encoded, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "view cache write failed", "case_id", caseID.String(), "error", err)
	}
	return data, nil
}

// Invalidate drops the cached view after a save changed the stored case.
func (c *Cache) Invalidate(ctx context.Context, caseID id.CaseID) error {
	if err := c.backend.Delete(ctx, key(caseID)); err != nil {
		return fmt.Errorf("invalidate case view: %w", err)
	}
	return nil
}

func (c *Cache) record(result string) {
	if c.metrics != nil {
		c.metrics.Lookups.WithLabelValues(result).Inc()
	}
}
