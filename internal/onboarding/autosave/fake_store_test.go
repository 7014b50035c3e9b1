package autosave

import (
	"context"
	"errors"
	"sync"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/diagnostics"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

var errWriteRejected = errors.New("write rejected")

// recordingStore keeps the last written value per entity and counts writes.
type recordingStore struct {
	mu         sync.Mutex
	contacts   map[id.CaseID]models.ContactInfo
	companies  map[id.CaseID]models.CompanyInfo
	locations  map[id.LocationID]models.BusinessLocation
	authorized map[id.PersonID]models.Person
	owners     map[id.PersonID]models.Person
	devices    map[id.CaseID]models.DeviceSelection
	consents   map[id.CaseID]models.Consents
	pruned     map[EntityKind][]string
	writes     int

	failLocation id.LocationID
	failContact  bool
	onWrite      func(kind EntityKind)
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		contacts:   make(map[id.CaseID]models.ContactInfo),
		companies:  make(map[id.CaseID]models.CompanyInfo),
		locations:  make(map[id.LocationID]models.BusinessLocation),
		authorized: make(map[id.PersonID]models.Person),
		owners:     make(map[id.PersonID]models.Person),
		devices:    make(map[id.CaseID]models.DeviceSelection),
		consents:   make(map[id.CaseID]models.Consents),
		pruned:     make(map[EntityKind][]string),
	}
}

func (s *recordingStore) record(kind EntityKind) {
	s.mu.Lock()
	s.writes++
	hook := s.onWrite
	s.mu.Unlock()
	if hook != nil {
		hook(kind)
	}
}

func (s *recordingStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *recordingStore) UpsertContact(_ context.Context, caseID id.CaseID, c models.ContactInfo) error {
	s.record(EntityContact)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failContact {
		return errWriteRejected
	}
	s.contacts[caseID] = c
	return nil
}

func (s *recordingStore) UpsertCompany(_ context.Context, caseID id.CaseID, c models.CompanyInfo) error {
	s.record(EntityCompany)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[caseID] = c
	return nil
}

func (s *recordingStore) UpsertLocation(_ context.Context, _ id.CaseID, loc models.BusinessLocation) error {
	s.record(EntityLocation)
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc.ID == s.failLocation {
		return errWriteRejected
	}
	s.locations[loc.ID] = loc
	return nil
}

func (s *recordingStore) UpsertAuthorizedPerson(_ context.Context, _ id.CaseID, p models.Person) error {
	s.record(EntityAuthorizedPerson)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[p.ID] = p
	return nil
}

func (s *recordingStore) UpsertOwner(_ context.Context, _ id.CaseID, p models.Person) error {
	s.record(EntityOwner)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[p.ID] = p
	return nil
}

func (s *recordingStore) UpsertDeviceSelection(_ context.Context, caseID id.CaseID, sel models.DeviceSelection) error {
	s.record(EntityDeviceSelection)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[caseID] = sel
	return nil
}

func (s *recordingStore) UpsertConsents(_ context.Context, caseID id.CaseID, c models.Consents) error {
	s.record(EntityConsents)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consents[caseID] = c
	return nil
}

func (s *recordingStore) PruneLocations(_ context.Context, _ id.CaseID, keep []id.LocationID) error {
	s.record(EntityLocationPrune)
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make(map[id.LocationID]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for locID := range s.locations {
		if !kept[locID] {
			delete(s.locations, locID)
			s.pruned[EntityLocation] = append(s.pruned[EntityLocation], locID.String())
		}
	}
	return nil
}

func (s *recordingStore) PruneAuthorizedPersons(_ context.Context, _ id.CaseID, keep []id.PersonID) error {
	s.record(EntityAuthorizedPrune)
	s.mu.Lock()
	defer s.mu.Unlock()
	prunePersons(s.authorized, keep)
	return nil
}

func (s *recordingStore) PruneOwners(_ context.Context, _ id.CaseID, keep []id.PersonID) error {
	s.record(EntityOwnerPrune)
	s.mu.Lock()
	defer s.mu.Unlock()
	prunePersons(s.owners, keep)
	return nil
}

func prunePersons(m map[id.PersonID]models.Person, keep []id.PersonID) {
	kept := make(map[id.PersonID]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for pid := range m {
		if !kept[pid] {
			delete(m, pid)
		}
	}
}

type recordingReporter struct {
	mu      sync.Mutex
	entries int
}

func (r *recordingReporter) Report(context.Context, diagnostics.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries++
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context, id.CaseID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}
