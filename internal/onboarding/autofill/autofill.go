// Package autofill derives default records for dependent entities from the
// primary contact's declared role.
//
// DeriveUpdates is pure apart from generating ids for new records. It never
// touches a field a user already filled: duplicates are detected by name or
// email, never by identity, so feeding its output back in yields an empty
// patch.
package autofill

import (
	"strings"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/validation"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// DeriveUpdates returns the patch implied by role and contact against data.
// An unmet precondition or an unknown role yields the zero Patch.
func DeriveUpdates(role models.Role, contact models.ContactInfo, data models.OnboardingData) models.Patch {
	if !ready(role, contact) {
		return models.Patch{}
	}
	switch {
	case role == models.RoleOwner:
		return ownerPatch(contact, data)
	case role.IsDirectorLike():
		return directorPatch(contact, data)
	case role == models.RoleTechnicalContact:
		return technicalPatch(contact, data)
	case role == models.RoleLocationContact:
		return locationContactPatch(contact, data)
	default:
		return models.Patch{}
	}
}

// ready is the trigger precondition: role plus name, valid email and phone.
func ready(role models.Role, c models.ContactInfo) bool {
	return role != "" &&
		present(c.FirstName) && present(c.LastName) && present(c.Phone) &&
		validation.IsValidEmail(c.Email)
}

func ownerPatch(c models.ContactInfo, data models.OnboardingData) models.Patch {
	for _, o := range data.ActualOwners {
		if sameName(o.FullName(), c.FullName()) {
			return models.Patch{}
		}
	}
	return models.Patch{AppendOwners: []models.Person{personFrom(c)}}
}

func directorPatch(c models.ContactInfo, data models.OnboardingData) models.Patch {
	var p models.Patch

	if !hasPerson(data.AuthorizedPersons, c) {
		person := personFrom(c)
		signer := person.ID
		p.AppendAuthorizedPersons = []models.Person{person}
		p.SigningPersonID = &signer
	}

	if data.CompanyInfo.ContactPerson.IsEmpty() {
		tech := contactPersonFrom(c)
		tech.IsTechnicalPerson = true
		p.TechnicalContact = &tech
	}

	if len(data.BusinessLocations) == 0 {
		p.AppendLocations = []models.BusinessLocation{defaultLocation(c, data)}
		return p
	}
	for _, loc := range data.BusinessLocations {
		if present(loc.ContactPerson.FullName()) {
			continue
		}
		setLocationContact(&p, loc.ID, contactPersonFrom(c))
	}
	return p
}

// technicalPatch always wins over an earlier value; it only stays quiet when
// the technical contact already equals the contact.
func technicalPatch(c models.ContactInfo, data models.OnboardingData) models.Patch {
	tech := contactPersonFrom(c)
	tech.IsTechnicalPerson = true
	if data.CompanyInfo.ContactPerson == tech {
		return models.Patch{}
	}
	return models.Patch{TechnicalContact: &tech}
}

// locationContactPatch re-applies to locations this contact filled before but
// leaves locations filled by someone else alone.
func locationContactPatch(c models.ContactInfo, data models.OnboardingData) models.Patch {
	if len(data.BusinessLocations) == 0 {
		return models.Patch{AppendLocations: []models.BusinessLocation{defaultLocation(c, data)}}
	}
	var p models.Patch
	want := contactPersonFrom(c)
	for _, loc := range data.BusinessLocations {
		current := loc.ContactPerson
		owned := current.IsEmpty() ||
			sameEmail(current.Email, c.Email) ||
			sameName(current.FullName(), c.FullName())
		if !owned || current == want {
			continue
		}
		setLocationContact(&p, loc.ID, want)
	}
	return p
}

func defaultLocation(c models.ContactInfo, data models.OnboardingData) models.BusinessLocation {
	return models.BusinessLocation{
		ID:            id.NewLocationID(),
		Name:          strings.TrimSpace(data.CompanyInfo.CompanyName),
		ContactPerson: contactPersonFrom(c),
	}
}

func setLocationContact(p *models.Patch, locationID id.LocationID, contact models.ContactPerson) {
	if p.LocationContacts == nil {
		p.LocationContacts = make(map[id.LocationID]models.ContactPerson)
	}
	p.LocationContacts[locationID] = contact
}

func hasPerson(persons []models.Person, c models.ContactInfo) bool {
	for _, person := range persons {
		if sameName(person.FullName(), c.FullName()) && sameEmail(person.Email, c.Email) {
			return true
		}
	}
	return false
}

func personFrom(c models.ContactInfo) models.Person {
	return models.Person{
		ID:        id.NewPersonID(),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     c.FullPhone(),
		Position:  string(c.Role),
	}
}

func contactPersonFrom(c models.ContactInfo) models.ContactPerson {
	return models.ContactPerson{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     c.FullPhone(),
	}
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

func sameName(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

func sameEmail(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(b))
}
