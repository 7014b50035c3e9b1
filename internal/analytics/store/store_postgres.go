package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	txcontext "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/tx"
)

// PostgresStore appends events to step_analytics.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, e models.StepEvent) error {
	query := `
		INSERT INTO step_analytics (id, case_id, session_token, step_number, step_name, started_at, completed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		e.ID, e.CaseID.String(), e.SessionToken.String(), e.StepNumber, e.StepName,
		e.StartedAt, e.CompletedAt, e.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("append step analytics: %w", err)
	}
	return nil
}
