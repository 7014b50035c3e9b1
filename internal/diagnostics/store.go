package diagnostics

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	txcontext "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/tx"
)

// Store persists diagnostic entries. It is append-only.
type Store interface {
	Append(ctx context.Context, entry Entry) error
}

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.CaseID][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.CaseID][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.CaseID] = append(s.entries[entry.CaseID], entry)
	return nil
}

// ListByCase is for tests and local debugging.
func (s *InMemoryStore) ListByCase(caseID id.CaseID) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[caseID]...)
}

// PostgresStore writes to the error_logs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
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

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	var sessionID any
	if !entry.SessionID.IsNil() {
		sessionID = entry.SessionID.String()
	}
	query := `
		INSERT INTO error_logs (id, case_id, session_token, step_number, classification, message, stack, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.CaseID.String(),
		sessionID,
		entry.Step,
		string(entry.Classification),
		entry.Message,
		entry.Stack,
		entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert error log: %w", err)
	}
	return nil
}
