package autofill

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

var roles = []models.Role{
	models.RoleOwner,
	models.RoleManagingDirector,
	models.RoleStatutoryRepresentative,
	models.RoleTechnicalContact,
	models.RoleLocationContact,
}

// TestDeriveUpdatesConverges verifies auto-fill is idempotent.
// Property: DeriveUpdates(r, c, Apply(d, DeriveUpdates(r, c, d))) is empty
func TestDeriveUpdatesConverges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("second derivation is empty", prop.ForAll(
		func(roleIdx int, first, last, domain string, locations int, prefilled bool) bool {
			role := roles[roleIdx]
			contact := models.ContactInfo{
				FirstName: first,
				LastName:  last,
				Email:     first + "@" + domain + ".sk",
				Phone:     "+421900111222",
				Role:      role,
			}
			data := models.New(id.NewCaseID())
			for i := 0; i < locations; i++ {
				loc := models.BusinessLocation{ID: id.NewLocationID()}
				if prefilled && i%2 == 0 {
					loc.ContactPerson = models.ContactPerson{FirstName: "Peter", LastName: "Horvath", Email: "peter@x.sk"}
				}
				data = models.UpsertLocation(loc)(data)
			}

			first1 := DeriveUpdates(role, contact, data)
			next := models.Apply(data, first1)
			return DeriveUpdates(role, contact, next).IsEmpty()
		},
		gen.IntRange(0, len(roles)-1),
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
		gen.IntRange(0, 3),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
