package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

func f64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool   { return &v }

func validLocation() models.BusinessLocation {
	return models.BusinessLocation{
		ID:                 id.NewLocationID(),
		Name:               "Kaviareň Centrum",
		Address:            models.Address{Street: "Hlavná 1", City: "Košice", Zip: "04001"},
		ContactPerson:      models.ContactPerson{FirstName: "Jana", LastName: "Kovac", Email: "jana@x.sk", Phone: "+421900111222"},
		BankAccounts:       []models.BankAccount{{IBAN: "SK3112000000198742637541", Currency: "EUR"}},
		BusinessSubject:    "Gastro",
		MonthlyTurnover:    f64(12000),
		AverageTransaction: f64(8.5),
	}
}

func TestIsComplete_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		path  string
		want  bool
	}{
		{"unset is incomplete", nil, "contactInfo.firstName", false},
		{"blank string", "   ", "contactInfo.firstName", false},
		{"plain string", "Jana", "contactInfo.firstName", true},
		{"valid email", "jana@x.sk", "contactInfo.email", true},
		{"email without domain", "jana@x", "contactInfo.email", false},
		{"nested email path", "not-an-email", "companyInfo.contactPerson.email", false},
		{"phone with nine digits", "+421 900 111", "contactInfo.phone", true},
		{"short phone", "0900 11", "contactInfo.phone", false},
		{"phone prefix is not a phone", "+421", "contactInfo.phonePrefix", true},
		{"ico too short", "12345", "companyInfo.ico", false},
		{"ico long enough", "123456", "companyInfo.ico", true},
		{"dic long enough", "2020123456", "companyInfo.dic", true},
		{"bool false is present", false, "companyInfo.contactAddressSameAsMain", true},
		{"unset bool pointer", (*bool)(nil), "consents.gdprConsent", false},
		{"set bool pointer", ptrBool(false), "consents.gdprConsent", true},
		{"zero number is complete", f64(0), "deviceSelection.fees.regulatedCards", true},
		{"negative number", f64(-1), "deviceSelection.fees.regulatedCards", false},
		{"zero int", 0, "currentStep", true},
		{"role", models.RoleOwner, "contactInfo.role", true},
		{"empty role", models.Role(""), "contactInfo.role", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(tt.value, tt.path))
		})
	}
}

func TestIsComplete_NestedObjects(t *testing.T) {
	t.Run("address requires street city zip", func(t *testing.T) {
		assert.False(t, IsComplete(models.Address{Street: "Hlavná 1", City: "Košice"}, "companyInfo.address"))
		assert.True(t, IsComplete(models.Address{Street: "Hlavná 1", City: "Košice", Zip: "04001"}, "companyInfo.address"))
	})

	t.Run("contact person requires valid email", func(t *testing.T) {
		p := models.ContactPerson{FirstName: "Jana", LastName: "Kovac", Email: "jana", Phone: "0900111222"}
		assert.False(t, IsComplete(p, "companyInfo.contactPerson"))
		p.Email = "jana@x.sk"
		assert.True(t, IsComplete(p, "companyInfo.contactPerson"))
	})

	t.Run("fees require two non-negative rates", func(t *testing.T) {
		assert.False(t, IsComplete(models.Fees{RegulatedCards: f64(0.2)}, "deviceSelection.fees"))
		assert.True(t, IsComplete(models.Fees{RegulatedCards: f64(0), UnregulatedCards: f64(1.2)}, "deviceSelection.fees"))
	})

	t.Run("consents require both flags true", func(t *testing.T) {
		assert.False(t, IsComplete(models.Consents{GDPR: ptrBool(true), Terms: ptrBool(false)}, "consents"))
		assert.True(t, IsComplete(models.Consents{GDPR: ptrBool(true), Terms: ptrBool(true)}, "consents"))
	})

	t.Run("other shapes need one key", func(t *testing.T) {
		assert.False(t, IsComplete(map[string]string{}, "x"))
		assert.True(t, IsComplete(map[string]string{"a": ""}, "x"))
		assert.False(t, IsComplete(models.OpeningHours{}, "x"))
		assert.True(t, IsComplete(models.OpeningHours{Day: "mon"}, "x"))
	})

	t.Run("ids must be set", func(t *testing.T) {
		assert.False(t, IsComplete(id.PersonID{}, "consents.signingPersonId"))
		assert.True(t, IsComplete(id.NewPersonID(), "consents.signingPersonId"))
	})
}

func TestIsComplete_Lists(t *testing.T) {
	t.Run("empty list is incomplete", func(t *testing.T) {
		assert.False(t, IsComplete([]models.BusinessLocation{}, "businessLocations"))
		assert.False(t, IsComplete([]models.Person(nil), "authorizedPersons"))
	})

	t.Run("locations are all-or-nothing", func(t *testing.T) {
		locations := []models.BusinessLocation{validLocation(), validLocation(), validLocation()}
		locations[2].BankAccounts = nil
		assert.False(t, IsComplete(locations, "businessLocations"))

		locations[2].BankAccounts = []models.BankAccount{{IBAN: "SK31", Currency: "EUR"}}
		assert.True(t, IsComplete(locations, "businessLocations"))
	})

	t.Run("zero average transaction fails the location rule only", func(t *testing.T) {
		loc := validLocation()
		loc.AverageTransaction = f64(0)
		assert.False(t, LocationComplete(loc))
		assert.False(t, IsComplete([]models.BusinessLocation{loc}, "businessLocations"))
		assert.True(t, IsComplete(f64(0), "businessLocations.0.averageTransaction"))
	})

	t.Run("persons need names and valid email", func(t *testing.T) {
		persons := []models.Person{{FirstName: "Jana", LastName: "Kovac", Email: "jana@x.sk"}}
		assert.True(t, IsComplete(persons, "actualOwners"))
		persons = append(persons, models.Person{FirstName: "Peter", Email: "peter@x.sk"})
		assert.False(t, IsComplete(persons, "actualOwners"))
	})

	t.Run("cards need name and positive count", func(t *testing.T) {
		cards := []models.DynamicCard{
			models.NewDeviceCard("pos", "A920", 1, models.DeviceSpec{SimCards: 1}),
			models.NewServiceCard("software", "Gateway", 1, models.ServiceSpec{}),
		}
		assert.True(t, IsComplete(cards, "deviceSelection.dynamicCards"))

		cards[1].Count = 0
		assert.False(t, IsComplete(cards, "deviceSelection.dynamicCards"))
	})

	t.Run("card with mismatched payload is incomplete", func(t *testing.T) {
		card := models.NewDeviceCard("pos", "A920", 1, models.DeviceSpec{})
		card.Device = nil
		assert.False(t, CardComplete(card))
	})
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail(" jana@x.sk "))
	assert.False(t, IsValidEmail("jana @x.sk"))
	assert.False(t, IsValidEmail("@x.sk"))
	assert.False(t, IsValidEmail(""))
}
