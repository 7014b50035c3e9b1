// Package diagnostics records write-only error logs for onboarding cases.
//
// Nothing in the onboarding core reads these back. Reporting never blocks the
// caller and never fails it.
package diagnostics

import (
	"time"

	"github.com/google/uuid"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Classification groups entries by the component that failed.
type Classification string

const (
	ClassPersistence Classification = "persistence_failure"
	ClassAnalytics   Classification = "analytics_failure"
	ClassPresence    Classification = "presence_failure"
	ClassMerchant    Classification = "merchant_link_failure"
)

// Entry is one error_logs row.
type Entry struct {
	ID             uuid.UUID
	CaseID         id.CaseID
	SessionID      id.SessionID
	Step           int
	Classification Classification
	Message        string
	Stack          string
	OccurredAt     time.Time
}
