package models

import (
	"time"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Session is one editor's presence on a case.
type Session struct {
	Token       id.SessionID `json:"token"`
	CaseID      id.CaseID    `json:"case_id"`
	UserID      id.UserID    `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Device      string       `json:"device"`
	CurrentStep int          `json:"current_step"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Active reports whether the session has not yet expired at now.
func (s Session) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Registration carries what a caller knows when an editor opens a case.
type Registration struct {
	Token       id.SessionID
	CaseID      id.CaseID
	UserID      id.UserID
	DisplayName string
	UserAgent   string
	CurrentStep int
}

// Conflict names a field that more than one session is editing.
type Conflict struct {
	FieldPath string
	Sessions  []id.SessionID
}
