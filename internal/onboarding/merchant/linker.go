// Package merchant creates the merchant account derived from a case once the
// company identifiers are known.
package merchant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/diagnostics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/autosave"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/store"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Store creates at most one merchant account per case.
type Store interface {
	CreateMerchant(ctx context.Context, caseID id.CaseID, company models.CompanyInfo) (store.Merchant, bool, error)
}

// Outcome describes what a single Ensure call did.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeBusy
	OutcomeCreated
	OutcomeExisting
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeBusy:
		return "busy"
	case OutcomeCreated:
		return "created"
	case OutcomeExisting:
		return "existing"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Linker struct {
	store       Store
	locks       *autosave.CaseLocks
	logger      *slog.Logger
	diagnostics autosave.DiagnosticsReporter
}

type Option func(*Linker)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLocks shares a lock table with other derived-entity routines.
func WithLocks(locks *autosave.CaseLocks) Option {
	return func(l *Linker) {
		if locks != nil {
			l.locks = locks
		}
	}
}

func WithDiagnostics(r autosave.DiagnosticsReporter) Option {
	return func(l *Linker) {
		l.diagnostics = r
	}
}

func NewLinker(s Store, opts ...Option) (*Linker, error) {
	if s == nil {
		return nil, errors.New("merchant store is required")
	}
	l := &Linker{
		store:  s,
		locks:  autosave.NewCaseLocks(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Ensure creates the merchant account for caseID when the company name and
// ICO are present. A concurrent run for the same case makes this call return
// OutcomeBusy without waiting.
func (l *Linker) Ensure(ctx context.Context, caseID id.CaseID, data models.OnboardingData) Outcome {
	company := data.CompanyInfo
	if strings.TrimSpace(company.CompanyName) == "" || strings.TrimSpace(company.ICO) == "" {
		return OutcomeSkipped
	}
	if !l.locks.TryAcquire(caseID) {
		l.logger.DebugContext(ctx, "merchant linking already running", "case_id", caseID.String())
		return OutcomeBusy
	}
	defer l.locks.Release(caseID)

	m, created, err := l.store.CreateMerchant(ctx, caseID, company)
	if err != nil {
		l.logger.WarnContext(ctx, "merchant linking failed", "case_id", caseID.String(), "error", err)
		if l.diagnostics != nil {
			l.diagnostics.Report(ctx, diagnostics.Entry{
				CaseID:         caseID,
				Classification: diagnostics.ClassMerchant,
				Message:        err.Error(),
			})
		}
		return OutcomeFailed
	}
	if !created {
		return OutcomeExisting
	}
	l.logger.InfoContext(ctx, "merchant account created",
		"case_id", caseID.String(),
		"merchant_id", m.ID.String(),
		"ico", m.ICO,
	)
	return OutcomeCreated
}

// Hook adapts Ensure for autosave.WithSavedHook.
func (l *Linker) Hook() autosave.SavedHook {
	return func(ctx context.Context, caseID id.CaseID, data models.OnboardingData) {
		l.Ensure(ctx, caseID, data)
	}
}
