package autosave

import (
	"context"
	"fmt"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

// Store is the case-oriented backing store. Every write is an idempotent
// upsert keyed by case id, plus the entity's own id for list members.
type Store interface {
	UpsertContact(ctx context.Context, caseID id.CaseID, contact models.ContactInfo) error
	UpsertCompany(ctx context.Context, caseID id.CaseID, company models.CompanyInfo) error
	UpsertLocation(ctx context.Context, caseID id.CaseID, loc models.BusinessLocation) error
	UpsertAuthorizedPerson(ctx context.Context, caseID id.CaseID, person models.Person) error
	UpsertOwner(ctx context.Context, caseID id.CaseID, person models.Person) error
	UpsertDeviceSelection(ctx context.Context, caseID id.CaseID, sel models.DeviceSelection) error
	UpsertConsents(ctx context.Context, caseID id.CaseID, consents models.Consents) error
	// Prune* delete the case's members whose id is not in keep.
	PruneLocations(ctx context.Context, caseID id.CaseID, keep []id.LocationID) error
	PruneAuthorizedPersons(ctx context.Context, caseID id.CaseID, keep []id.PersonID) error
	PruneOwners(ctx context.Context, caseID id.CaseID, keep []id.PersonID) error
}

// EntityKind names an entity group of the aggregate.
type EntityKind string

const (
	EntityContact          EntityKind = "contact_info"
	EntityCompany          EntityKind = "company_info"
	EntityLocation         EntityKind = "business_location"
	EntityAuthorizedPerson EntityKind = "authorized_person"
	EntityOwner            EntityKind = "actual_owner"
	EntityDeviceSelection  EntityKind = "device_selection"
	EntityConsents         EntityKind = "consents"
	EntityLocationPrune    EntityKind = "business_location_prune"
	EntityAuthorizedPrune  EntityKind = "authorized_person_prune"
	EntityOwnerPrune       EntityKind = "actual_owner_prune"
)

// EntityRef identifies one write in a batch. ID is empty for one-per-case
// entities.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

func (r EntityRef) String() string {
	if r.ID == "" {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}
