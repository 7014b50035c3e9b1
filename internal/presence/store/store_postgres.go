package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

// PostgresStore persists sessions in user_sessions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, session models.Session) error {
	var userID any
	if !session.UserID.IsNil() {
		userID = session.UserID.String()
	}
	query := `
		INSERT INTO user_sessions (token, case_id, user_id, display_name, device, current_step, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (token) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			device = EXCLUDED.device,
			current_step = EXCLUDED.current_step,
			expires_at = EXCLUDED.expires_at
	`
	_, err := s.db.ExecContext(ctx, query,
		session.Token.String(), session.CaseID.String(), userID, session.DisplayName,
		session.Device, session.CurrentStep, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save presence session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Touch(ctx context.Context, token id.SessionID, now, expiresAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_sessions SET expires_at = $2 WHERE token = $1 AND expires_at > $3`,
		token.String(), expiresAt, now)
	if err != nil {
		return fmt.Errorf("touch presence session: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) SetStep(ctx context.Context, token id.SessionID, step int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE user_sessions SET current_step = $2 WHERE token = $1`, token.String(), step)
	if err != nil {
		return fmt.Errorf("set presence step: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, token id.SessionID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE token = $1`, token.String()); err != nil {
		return fmt.Errorf("delete presence session: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCase(ctx context.Context, caseID id.CaseID) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, user_id, display_name, device, current_step, created_at, expires_at
		FROM user_sessions WHERE case_id = $1
		ORDER BY created_at`, caseID.String())
	if err != nil {
		return nil, fmt.Errorf("list presence sessions: %w", err)
	}
	defer rows.Close()

	var out []models.Session
	for rows.Next() {
		var (
			token  uuid.UUID
			userID uuid.NullUUID
		)
		session := models.Session{CaseID: caseID}
		if err := rows.Scan(&token, &userID, &session.DisplayName, &session.Device,
			&session.CurrentStep, &session.CreatedAt, &session.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan presence session: %w", err)
		}
		session.Token = id.SessionID(token)
		if userID.Valid {
			session.UserID = id.UserID(userID.UUID)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list presence sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired presence sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired presence sessions: %w", err)
	}
	return int(n), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
