package models

import (
	"sort"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Patch is a partial aggregate update derived by auto-fill. The zero Patch is
// a no-op.
type Patch struct {
	AppendOwners            []Person
	AppendAuthorizedPersons []Person
	SigningPersonID         *id.PersonID
	TechnicalContact        *ContactPerson
	AppendLocations         []BusinessLocation
	LocationContacts        map[id.LocationID]ContactPerson
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return len(p.AppendOwners) == 0 &&
		len(p.AppendAuthorizedPersons) == 0 &&
		p.SigningPersonID == nil &&
		p.TechnicalContact == nil &&
		len(p.AppendLocations) == 0 &&
		len(p.LocationContacts) == 0
}

// Mutation is a pure reducer over the aggregate.
type Mutation func(OnboardingData) OnboardingData

// Apply returns a new aggregate with the patch applied.
func Apply(data OnboardingData, p Patch) OnboardingData {
	next := data.Clone()
	if p.IsEmpty() {
		return next
	}
	next.ActualOwners = append(next.ActualOwners, clonePersons(p.AppendOwners)...)
	next.AuthorizedPersons = append(next.AuthorizedPersons, clonePersons(p.AppendAuthorizedPersons)...)
	if p.SigningPersonID != nil {
		signer := *p.SigningPersonID
		next.Consents.SigningPersonID = &signer
	}
	if p.TechnicalContact != nil {
		next.CompanyInfo.ContactPerson = *p.TechnicalContact
	}
	for i := range next.BusinessLocations {
		if contact, ok := p.LocationContacts[next.BusinessLocations[i].ID]; ok {
			next.BusinessLocations[i].ContactPerson = contact
		}
	}
	next.BusinessLocations = append(next.BusinessLocations, cloneLocations(p.AppendLocations)...)
	return next
}

// WithContact replaces the contact info.
func WithContact(contact ContactInfo) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.ContactInfo = contact
		return next
	}
}

// WithCompany replaces the company info.
func WithCompany(company CompanyInfo) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.CompanyInfo = company
		if company.ContactAddress != nil {
			addr := *company.ContactAddress
			next.CompanyInfo.ContactAddress = &addr
		}
		return next
	}
}

// UpsertLocation replaces the location with the same id or appends it.
func UpsertLocation(loc BusinessLocation) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		loc = cloneLocations([]BusinessLocation{loc})[0]
		for i := range next.BusinessLocations {
			if next.BusinessLocations[i].ID == loc.ID {
				next.BusinessLocations[i] = loc
				return next
			}
		}
		next.BusinessLocations = append(next.BusinessLocations, loc)
		return next
	}
}

// RemoveLocation drops the location with the given id.
func RemoveLocation(locationID id.LocationID) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		kept := next.BusinessLocations[:0]
		for _, l := range next.BusinessLocations {
			if l.ID != locationID {
				kept = append(kept, l)
			}
		}
		next.BusinessLocations = kept
		return next
	}
}

// WithDeviceSelection replaces the device selection.
func WithDeviceSelection(sel DeviceSelection) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		sel.DynamicCards = append([]DynamicCard(nil), sel.DynamicCards...)
		next.DeviceSelection = sel
		return next
	}
}

// WithAuthorizedPersons replaces the authorized person list.
func WithAuthorizedPersons(persons []Person) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.AuthorizedPersons = clonePersons(persons)
		return next
	}
}

// WithActualOwners replaces the actual owner list.
func WithActualOwners(persons []Person) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.ActualOwners = clonePersons(persons)
		return next
	}
}

// WithConsents replaces the consent block.
func WithConsents(c Consents) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.Consents = c
		return next
	}
}

// Visit marks step visited and moves the cursor to it. The visited set only grows.
func Visit(step int) Mutation {
	return func(d OnboardingData) OnboardingData {
		next := d.Clone()
		next.CurrentStep = step
		if !next.HasVisited(step) {
			next.VisitedSteps = append(next.VisitedSteps, step)
			sort.Ints(next.VisitedSteps)
		}
		return next
	}
}

// Clone deep-copies every slice of the aggregate. Pointer leaves are shared;
// reducers replace them instead of writing through them.
func (d OnboardingData) Clone() OnboardingData {
	next := d
	next.BusinessLocations = cloneLocations(d.BusinessLocations)
	next.AuthorizedPersons = clonePersons(d.AuthorizedPersons)
	next.ActualOwners = clonePersons(d.ActualOwners)
	if d.DeviceSelection.DynamicCards != nil {
		next.DeviceSelection.DynamicCards = append([]DynamicCard(nil), d.DeviceSelection.DynamicCards...)
	}
	if d.VisitedSteps != nil {
		next.VisitedSteps = append([]int(nil), d.VisitedSteps...)
	}
	return next
}

func clonePersons(in []Person) []Person {
	if in == nil {
		return nil
	}
	return append([]Person(nil), in...)
}

func cloneLocations(in []BusinessLocation) []BusinessLocation {
	if in == nil {
		return nil
	}
	out := make([]BusinessLocation, len(in))
	for i, l := range in {
		out[i] = l
		if l.BankAccounts != nil {
			out[i].BankAccounts = append([]BankAccount(nil), l.BankAccounts...)
		}
		if l.OpeningHours != nil {
			out[i].OpeningHours = append([]OpeningHours(nil), l.OpeningHours...)
		}
	}
	return out
}
