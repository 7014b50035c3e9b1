// Package models defines the onboarding aggregate and the pure reducers that
// produce new aggregates from patches.
//
// OnboardingData is a value: reducers never mutate their input. Optional
// numbers and flags are pointers so "unset" stays distinguishable from zero.
package models

import (
	"strings"

	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

// Role is the declared role of the primary contact. It drives auto-fill.
type Role string

const (
	RoleOwner                   Role = "owner"
	RoleManagingDirector        Role = "managing_director"
	RoleStatutoryRepresentative Role = "statutory_representative"
	RoleTechnicalContact        Role = "technical_contact"
	RoleLocationContact         Role = "business_location_contact"
)

// IsDirectorLike reports whether the role acts as the company's managing director.
func (r Role) IsDirectorLike() bool {
	return r == RoleManagingDirector || r == RoleStatutoryRepresentative
}

// ContactInfo is filled on the first step and never deleted during a session.
type ContactInfo struct {
	Salutation  string `json:"salutation"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhonePrefix string `json:"phonePrefix"`
	Phone       string `json:"phone"`
	Role        Role   `json:"role"`
	Note        string `json:"note"`
}

// FullName joins first and last name the way duplicate detection compares them.
func (c ContactInfo) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

// FullPhone is the phone number with its dialling prefix.
func (c ContactInfo) FullPhone() string {
	if c.PhonePrefix == "" || strings.HasPrefix(c.Phone, "+") {
		return c.Phone
	}
	return c.PhonePrefix + c.Phone
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
}

type ContactPerson struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	IsTechnicalPerson bool   `json:"isTechnicalPerson"`
}

func (p ContactPerson) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

// IsEmpty reports whether no identifying field of the contact person is set.
func (p ContactPerson) IsEmpty() bool {
	return strings.TrimSpace(p.FirstName) == "" &&
		strings.TrimSpace(p.LastName) == "" &&
		strings.TrimSpace(p.Email) == "" &&
		strings.TrimSpace(p.Phone) == ""
}

type CompanyInfo struct {
	CompanyName              string        `json:"companyName"`
	ICO                      string        `json:"ico"`
	DIC                      string        `json:"dic"`
	VATNumber                string        `json:"icDph"`
	RegistryCourt            string        `json:"registryCourt"`
	RegistryInsert           string        `json:"registryInsert"`
	Address                  Address       `json:"address"`
	ContactAddress           *Address      `json:"contactAddress,omitempty"`
	ContactAddressSameAsMain bool          `json:"contactAddressSameAsMain"`
	ContactPerson            ContactPerson `json:"contactPerson"`
}

type BankAccount struct {
	IBAN     string `json:"iban"`
	Currency string `json:"currency"`
}

type OpeningHours struct {
	Day    string `json:"day"`
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type BusinessLocation struct {
	ID                 id.LocationID  `json:"id"`
	Name               string         `json:"name"`
	Address            Address        `json:"address"`
	ContactPerson      ContactPerson  `json:"contactPerson"`
	BankAccounts       []BankAccount  `json:"bankAccounts"`
	BusinessSubject    string         `json:"businessSubject"`
	MCCCode            string         `json:"mccCode"`
	MonthlyTurnover    *float64       `json:"monthlyTurnover"`
	AverageTransaction *float64       `json:"averageTransaction"`
	OpeningHours       []OpeningHours `json:"openingHours"`
	Seasonal           bool           `json:"seasonal"`
	SeasonalWeeks      *int           `json:"seasonalWeeks"`
}

// Person is an authorized person or an actual (beneficial) owner.
type Person struct {
	ID                   id.PersonID `json:"id"`
	FirstName            string      `json:"firstName"`
	LastName             string      `json:"lastName"`
	Email                string      `json:"email"`
	Phone                string      `json:"phone"`
	BirthDate            string      `json:"birthDate"`
	BirthNumber          string      `json:"birthNumber"`
	Citizenship          string      `json:"citizenship"`
	Position             string      `json:"position"`
	Address              Address     `json:"address"`
	DocumentType         string      `json:"documentType"`
	DocumentNumber       string      `json:"documentNumber"`
	DocumentValidity     string      `json:"documentValidity"`
	OwnershipPercentage  *float64    `json:"ownershipPercentage"`
	IsPoliticallyExposed *bool       `json:"isPoliticallyExposed"`
	IsUSCitizen          *bool       `json:"isUSCitizen"`
}

func (p Person) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

// Fees carries the two card fee rates negotiated for the case.
type Fees struct {
	RegulatedCards   *float64 `json:"regulatedCards"`
	UnregulatedCards *float64 `json:"unregulatedCards"`
}

type DeviceSelection struct {
	DynamicCards []DynamicCard `json:"dynamicCards"`
	Note         string        `json:"note"`
	Fees         Fees          `json:"fees"`
}

type Consents struct {
	GDPR                    *bool        `json:"gdprConsent"`
	Terms                   *bool        `json:"termsConsent"`
	ElectronicCommunication *bool        `json:"electronicCommunicationConsent"`
	SignatureDate           string       `json:"signatureDate"`
	SignaturePlace          string       `json:"signaturePlace"`
	SigningPersonID         *id.PersonID `json:"signingPersonId,omitempty"`
}

// OnboardingData is the aggregate root, one per case.
type OnboardingData struct {
	CaseID            id.CaseID          `json:"caseId"`
	ContactInfo       ContactInfo        `json:"contactInfo"`
	CompanyInfo       CompanyInfo        `json:"companyInfo"`
	BusinessLocations []BusinessLocation `json:"businessLocations"`
	DeviceSelection   DeviceSelection    `json:"deviceSelection"`
	AuthorizedPersons []Person           `json:"authorizedPersons"`
	ActualOwners      []Person           `json:"actualOwners"`
	Consents          Consents           `json:"consents"`
	VisitedSteps      []int              `json:"visitedSteps"`
	CurrentStep       int                `json:"currentStep"`
}

// New starts an empty aggregate for a case.
func New(caseID id.CaseID) OnboardingData {
	return OnboardingData{CaseID: caseID}
}

// HasVisited reports whether step is in the visited set.
func (d OnboardingData) HasVisited(step int) bool {
	for _, s := range d.VisitedSteps {
		if s == step {
			return true
		}
	}
	return false
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
