package models

import (
	"time"

	"github.com/google/uuid"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// StepEvent is one completed visit of a wizard step by a session.
type StepEvent struct {
	ID           uuid.UUID    `json:"id"`
	CaseID       id.CaseID    `json:"case_id"`
	SessionToken id.SessionID `json:"session_token"`
	StepNumber   int          `json:"step_number"`
	StepName     string       `json:"step_name"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  time.Time    `json:"completed_at"`
	DurationMs   int64        `json:"duration_ms"`
}
