// Package store persists onboarding cases.
//
// Both implementations satisfy autosave.Store and merchant.Store. Every write
// is an idempotent upsert keyed by case id, plus the entity id for list
// members, so replaying a batch never duplicates rows.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

type caseRecord struct {
	contact    *models.ContactInfo
	company    *models.CompanyInfo
	locations  []models.BusinessLocation
	authorized []models.Person
	owners     []models.Person
	devices    *models.DeviceSelection
	consents   *models.Consents
}

// InMemoryStore keeps cases in process memory. List members keep their first
// insertion order, matching the Postgres store's created_at ordering.
type InMemoryStore struct {
	mu        sync.RWMutex
	cases     map[id.CaseID]*caseRecord
	merchants map[id.CaseID]Merchant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		cases:     make(map[id.CaseID]*caseRecord),
		merchants: make(map[id.CaseID]Merchant),
	}
}

func (s *InMemoryStore) record(caseID id.CaseID) *caseRecord {
	rec, ok := s.cases[caseID]
	if !ok {
		rec = &caseRecord{}
		s.cases[caseID] = rec
	}
	return rec
}

func (s *InMemoryStore) UpsertContact(_ context.Context, caseID id.CaseID, contact models.ContactInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(caseID).contact = &contact
	return nil
}

func (s *InMemoryStore) UpsertCompany(_ context.Context, caseID id.CaseID, company models.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if company.ContactAddress != nil {
		addr := *company.ContactAddress
		company.ContactAddress = &addr
	}
	s.record(caseID).company = &company
	return nil
}

func (s *InMemoryStore) UpsertLocation(_ context.Context, caseID id.CaseID, loc models.BusinessLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	loc.BankAccounts = append([]models.BankAccount(nil), loc.BankAccounts...)
	loc.OpeningHours = append([]models.OpeningHours(nil), loc.OpeningHours...)
	for i := range rec.locations {
		if rec.locations[i].ID == loc.ID {
			rec.locations[i] = loc
			return nil
		}
	}
	rec.locations = append(rec.locations, loc)
	return nil
}

func (s *InMemoryStore) UpsertAuthorizedPerson(_ context.Context, caseID id.CaseID, person models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	rec.authorized = upsertPerson(rec.authorized, person)
	return nil
}

func (s *InMemoryStore) UpsertOwner(_ context.Context, caseID id.CaseID, person models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	rec.owners = upsertPerson(rec.owners, person)
	return nil
}

func (s *InMemoryStore) UpsertDeviceSelection(_ context.Context, caseID id.CaseID, sel models.DeviceSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel.DynamicCards = append([]models.DynamicCard(nil), sel.DynamicCards...)
	s.record(caseID).devices = &sel
	return nil
}

func (s *InMemoryStore) UpsertConsents(_ context.Context, caseID id.CaseID, consents models.Consents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(caseID).consents = &consents
	return nil
}

func (s *InMemoryStore) PruneLocations(_ context.Context, caseID id.CaseID, keep []id.LocationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	kept := rec.locations[:0]
	for _, loc := range rec.locations {
		if containsID(keep, loc.ID) {
			kept = append(kept, loc)
		}
	}
	rec.locations = kept
	return nil
}

func (s *InMemoryStore) PruneAuthorizedPersons(_ context.Context, caseID id.CaseID, keep []id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	rec.authorized = prunePersons(rec.authorized, keep)
	return nil
}

func (s *InMemoryStore) PruneOwners(_ context.Context, caseID id.CaseID, keep []id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(caseID)
	rec.owners = prunePersons(rec.owners, keep)
	return nil
}

// LoadCase assembles the persisted aggregate. A case with no contact row has
// not been started and reads as sentinel.ErrNotFound.
func (s *InMemoryStore) LoadCase(_ context.Context, caseID id.CaseID) (models.OnboardingData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cases[caseID]
	if !ok || rec.contact == nil {
		return models.OnboardingData{}, sentinel.ErrNotFound
	}
	data := models.New(caseID)
	data.ContactInfo = *rec.contact
	if rec.company != nil {
		data.CompanyInfo = *rec.company
	}
	data.BusinessLocations = rec.locations
	data.AuthorizedPersons = rec.authorized
	data.ActualOwners = rec.owners
	if rec.devices != nil {
		data.DeviceSelection = *rec.devices
	}
	if rec.consents != nil {
		data.Consents = *rec.consents
	}
	return data.Clone(), nil
}

// CreateMerchant records the merchant account for a case once. created is
// false when the case already has one.
func (s *InMemoryStore) CreateMerchant(ctx context.Context, caseID id.CaseID, company models.CompanyInfo) (Merchant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.merchants[caseID]; ok {
		return existing, false, nil
	}
	m := Merchant{
		ID:          uuid.New(),
		CaseID:      caseID,
		CompanyName: company.CompanyName,
		ICO:         company.ICO,
		CreatedAt:   requestcontext.Now(ctx),
	}
	s.merchants[caseID] = m
	return m, true, nil
}

func (s *InMemoryStore) FindMerchant(_ context.Context, caseID id.CaseID) (Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.merchants[caseID]
	if !ok {
		return Merchant{}, sentinel.ErrNotFound
	}
	return m, nil
}

func upsertPerson(list []models.Person, person models.Person) []models.Person {
	for i := range list {
		if list[i].ID == person.ID {
			list[i] = person
			return list
		}
	}
	return append(list, person)
}

func prunePersons(list []models.Person, keep []id.PersonID) []models.Person {
	kept := list[:0]
	for _, p := range list {
		if containsID(keep, p.ID) {
			kept = append(kept, p)
		}
	}
	return kept
}

func containsID[T comparable](ids []T, want T) bool {
	for _, v := range ids {
		if v == want {
			return true
		}
	}
	return false
}
