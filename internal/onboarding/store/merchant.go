package store

import (
	"time"

	"github.com/google/uuid"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Merchant is the account derived from a case's company once it has a name
// and registration number.
type Merchant struct {
	ID          uuid.UUID
	CaseID      id.CaseID
	CompanyName string
	ICO         string
	CreatedAt   time.Time
}
