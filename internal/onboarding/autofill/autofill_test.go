package autofill

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// =============================================================================
// Auto-fill Test Suite
// =============================================================================
// Justification for unit tests: auto-fill must never clobber user input and
// must converge. Each role is checked for its derived records and for an empty
// second patch.

type AutofillSuite struct {
	suite.Suite
	contact models.ContactInfo
	data    models.OnboardingData
}

func TestAutofillSuite(t *testing.T) {
	suite.Run(t, new(AutofillSuite))
}

func (s *AutofillSuite) SetupTest() {
	s.contact = models.ContactInfo{
		FirstName: "Jana",
		LastName:  "Kovac",
		Email:     "jana@x.sk",
		Phone:     "+421900111222",
	}
	s.data = models.New(id.NewCaseID())
}

func (s *AutofillSuite) assertConverged(role models.Role, data models.OnboardingData) {
	s.T().Helper()
	again := DeriveUpdates(role, s.contact, data)
	s.True(again.IsEmpty(), "second derivation must be empty, got %+v", again)
}

// =============================================================================
// Precondition
// =============================================================================

func (s *AutofillSuite) TestPreconditionSkip() {
	cases := map[string]func(c *models.ContactInfo) models.Role{
		"missing role":   func(*models.ContactInfo) models.Role { return "" },
		"missing first":  func(c *models.ContactInfo) models.Role { c.FirstName = " "; return models.RoleOwner },
		"missing last":   func(c *models.ContactInfo) models.Role { c.LastName = ""; return models.RoleOwner },
		"missing phone":  func(c *models.ContactInfo) models.Role { c.Phone = ""; return models.RoleOwner },
		"invalid email":  func(c *models.ContactInfo) models.Role { c.Email = "jana@x"; return models.RoleOwner },
		"unmatched role": func(*models.ContactInfo) models.Role { return models.Role("accountant") },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			contact := s.contact
			role := mutate(&contact)
			s.True(DeriveUpdates(role, contact, s.data).IsEmpty())
		})
	}
}

// =============================================================================
// Owner
// =============================================================================

func (s *AutofillSuite) TestOwnerRole() {
	s.Run("appends owner from contact", func() {
		p := DeriveUpdates(models.RoleOwner, s.contact, s.data)
		s.Require().Len(p.AppendOwners, 1)
		owner := p.AppendOwners[0]
		s.Equal("Jana Kovac", owner.FullName())
		s.Equal("jana@x.sk", owner.Email)
		s.False(owner.ID.IsNil())
		s.Nil(p.SigningPersonID)

		s.assertConverged(models.RoleOwner, models.Apply(s.data, p))
	})

	s.Run("existing owner with same name is kept", func() {
		data := models.WithActualOwners([]models.Person{{FirstName: "jana", LastName: "KOVAC", Email: "other@x.sk"}})(s.data)
		s.True(DeriveUpdates(models.RoleOwner, s.contact, data).IsEmpty())
	})
}

// =============================================================================
// Managing Director
// =============================================================================

func (s *AutofillSuite) TestDirectorOnEmptyAggregate() {
	s.contact.Role = models.RoleManagingDirector
	p := DeriveUpdates(models.RoleManagingDirector, s.contact, s.data)

	s.Require().Len(p.AppendAuthorizedPersons, 1)
	person := p.AppendAuthorizedPersons[0]
	s.Equal("Jana Kovac", person.FullName())
	s.Require().NotNil(p.SigningPersonID)
	s.Equal(person.ID, *p.SigningPersonID)

	s.Require().NotNil(p.TechnicalContact)
	s.True(p.TechnicalContact.IsTechnicalPerson)

	s.Require().Len(p.AppendLocations, 1)
	s.Equal("Jana Kovac", p.AppendLocations[0].ContactPerson.FullName())
	s.Equal("jana@x.sk", p.AppendLocations[0].ContactPerson.Email)

	next := models.Apply(s.data, p)
	s.Len(next.AuthorizedPersons, 1)
	s.Len(next.BusinessLocations, 1)
	s.Require().NotNil(next.Consents.SigningPersonID)
	s.Equal(person.ID, *next.Consents.SigningPersonID)
	s.Equal("Jana Kovac", next.CompanyInfo.ContactPerson.FullName())

	s.assertConverged(models.RoleManagingDirector, next)
}

func (s *AutofillSuite) TestDirectorFillsOnlyEmptyLocationContacts() {
	filled := models.BusinessLocation{
		ID:            id.NewLocationID(),
		Name:          "Sklad",
		ContactPerson: models.ContactPerson{FirstName: "Peter", LastName: "Horvath", Email: "peter@x.sk"},
	}
	empty := models.BusinessLocation{ID: id.NewLocationID(), Name: "Predajňa"}
	data := models.UpsertLocation(filled)(s.data)
	data = models.UpsertLocation(empty)(data)
	data.CompanyInfo.ContactPerson = models.ContactPerson{FirstName: "Eva", LastName: "Mala"}

	p := DeriveUpdates(models.RoleStatutoryRepresentative, s.contact, data)
	s.Nil(p.TechnicalContact)
	s.Empty(p.AppendLocations)
	s.Require().Len(p.LocationContacts, 1)
	s.Equal("Jana Kovac", p.LocationContacts[empty.ID].FullName())

	next := models.Apply(data, p)
	s.Equal("Peter Horvath", next.BusinessLocations[0].ContactPerson.FullName())
	s.Equal("Jana Kovac", next.BusinessLocations[1].ContactPerson.FullName())
	s.Equal("Eva Mala", next.CompanyInfo.ContactPerson.FullName())

	s.assertConverged(models.RoleStatutoryRepresentative, next)
}

func (s *AutofillSuite) TestDirectorMatchesAuthorizedPersonByNameAndEmail() {
	data := models.WithAuthorizedPersons([]models.Person{{FirstName: "Jana", LastName: "Kovac", Email: "old@x.sk"}})(s.data)

	p := DeriveUpdates(models.RoleManagingDirector, s.contact, data)
	s.Len(p.AppendAuthorizedPersons, 1, "same name with another email is a different person")
}

// =============================================================================
// Technical Contact
// =============================================================================

func (s *AutofillSuite) TestTechnicalContactOverwrites() {
	s.data.CompanyInfo.ContactPerson = models.ContactPerson{FirstName: "Eva", LastName: "Mala", Email: "eva@x.sk", IsTechnicalPerson: true}

	p := DeriveUpdates(models.RoleTechnicalContact, s.contact, s.data)
	s.Require().NotNil(p.TechnicalContact)
	s.Equal("Jana Kovac", p.TechnicalContact.FullName())
	s.True(p.TechnicalContact.IsTechnicalPerson)

	s.assertConverged(models.RoleTechnicalContact, models.Apply(s.data, p))
}

// =============================================================================
// Business Location Contact
// =============================================================================

func (s *AutofillSuite) TestLocationContactRole() {
	s.Run("creates default location", func() {
		s.data.CompanyInfo.CompanyName = "Kaviareň s.r.o."
		p := DeriveUpdates(models.RoleLocationContact, s.contact, s.data)
		s.Require().Len(p.AppendLocations, 1)
		s.Equal("Kaviareň s.r.o.", p.AppendLocations[0].Name)

		s.assertConverged(models.RoleLocationContact, models.Apply(s.data, p))
	})

	s.Run("updates own locations and leaves others", func() {
		mine := models.BusinessLocation{ID: id.NewLocationID(), ContactPerson: models.ContactPerson{FirstName: "Jana", LastName: "Kovac", Email: "jana@x.sk", Phone: "0900"}}
		byEmail := models.BusinessLocation{ID: id.NewLocationID(), ContactPerson: models.ContactPerson{FirstName: "J.", Email: "JANA@x.sk"}}
		empty := models.BusinessLocation{ID: id.NewLocationID()}
		other := models.BusinessLocation{ID: id.NewLocationID(), ContactPerson: models.ContactPerson{FirstName: "Peter", LastName: "Horvath", Email: "peter@x.sk"}}
		data := s.data
		for _, l := range []models.BusinessLocation{mine, byEmail, empty, other} {
			data = models.UpsertLocation(l)(data)
		}

		p := DeriveUpdates(models.RoleLocationContact, s.contact, data)
		s.Len(p.LocationContacts, 3)
		s.Contains(p.LocationContacts, mine.ID)
		s.Contains(p.LocationContacts, byEmail.ID)
		s.Contains(p.LocationContacts, empty.ID)
		s.NotContains(p.LocationContacts, other.ID)

		s.assertConverged(models.RoleLocationContact, models.Apply(data, p))
	})
}
