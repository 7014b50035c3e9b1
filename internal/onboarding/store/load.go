package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

// LoadCase assembles the persisted aggregate. A case with no contact row has
// not been started and reads as sentinel.ErrNotFound.
func (s *PostgresStore) LoadCase(ctx context.Context, caseID id.CaseID) (models.OnboardingData, error) {
	data := models.New(caseID)
	q := s.execer(ctx)
	key := caseID.String()

	err := q.QueryRowContext(ctx, `
		SELECT salutation, first_name, last_name, email, phone_prefix, phone, role, note
		FROM contact_info WHERE case_id = $1`, key).Scan(
		&data.ContactInfo.Salutation, &data.ContactInfo.FirstName, &data.ContactInfo.LastName,
		&data.ContactInfo.Email, &data.ContactInfo.PhonePrefix, &data.ContactInfo.Phone,
		&data.ContactInfo.Role, &data.ContactInfo.Note,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OnboardingData{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.OnboardingData{}, fmt.Errorf("load contact info: %w", err)
	}

	if err := s.loadCompany(ctx, q, key, &data.CompanyInfo); err != nil {
		return models.OnboardingData{}, err
	}
	if data.BusinessLocations, err = s.loadLocations(ctx, q, key); err != nil {
		return models.OnboardingData{}, err
	}
	if data.AuthorizedPersons, err = s.loadPersons(ctx, q, tableAuthorizedPersons, key); err != nil {
		return models.OnboardingData{}, err
	}
	if data.ActualOwners, err = s.loadPersons(ctx, q, tableActualOwners, key); err != nil {
		return models.OnboardingData{}, err
	}
	if err := s.loadDevices(ctx, q, key, &data.DeviceSelection); err != nil {
		return models.OnboardingData{}, err
	}
	if err := s.loadConsents(ctx, q, key, &data.Consents); err != nil {
		return models.OnboardingData{}, err
	}
	return data, nil
}

func (s *PostgresStore) loadCompany(ctx context.Context, q dbExecutor, key string, c *models.CompanyInfo) error {
	var address, contactPerson []byte
	var contactAddress []byte
	err := q.QueryRowContext(ctx, `
		SELECT company_name, ico, dic, vat_number, registry_court, registry_insert,
			address, contact_address, contact_address_same_as_main, contact_person
		FROM company_info WHERE case_id = $1`, key).Scan(
		&c.CompanyName, &c.ICO, &c.DIC, &c.VATNumber, &c.RegistryCourt, &c.RegistryInsert,
		&address, &contactAddress, &c.ContactAddressSameAsMain, &contactPerson,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load company info: %w", err)
	}
	if err := decode(address, &c.Address); err != nil {
		return fmt.Errorf("decode company address: %w", err)
	}
	if len(contactAddress) > 0 {
		c.ContactAddress = &models.Address{}
		if err := decode(contactAddress, c.ContactAddress); err != nil {
			return fmt.Errorf("decode company contact address: %w", err)
		}
	}
	if err := decode(contactPerson, &c.ContactPerson); err != nil {
		return fmt.Errorf("decode company contact person: %w", err)
	}
	return nil
}

func (s *PostgresStore) loadLocations(ctx context.Context, q dbExecutor, key string) ([]models.BusinessLocation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, address, contact_person, bank_accounts, business_subject, mcc_code,
			monthly_turnover, average_transaction, opening_hours, seasonal, seasonal_weeks
		FROM business_locations WHERE case_id = $1
		ORDER BY created_at, id`, key)
	if err != nil {
		return nil, fmt.Errorf("load business locations: %w", err)
	}
	defer rows.Close()

	var out []models.BusinessLocation
	for rows.Next() {
		var (
			loc                             models.BusinessLocation
			rawID                           string
			address, contact, accounts, hrs []byte
			turnover, average               sql.NullFloat64
			weeks                           sql.NullInt64
		)
		if err := rows.Scan(&rawID, &loc.Name, &address, &contact, &accounts, &loc.BusinessSubject,
			&loc.MCCCode, &turnover, &average, &hrs, &loc.Seasonal, &weeks); err != nil {
			return nil, fmt.Errorf("scan business location: %w", err)
		}
		if loc.ID, err = id.ParseLocationID(rawID); err != nil {
			return nil, fmt.Errorf("scan business location: %w", err)
		}
		if err := errors.Join(
			decode(address, &loc.Address),
			decode(contact, &loc.ContactPerson),
			decode(accounts, &loc.BankAccounts),
			decode(hrs, &loc.OpeningHours),
		); err != nil {
			return nil, fmt.Errorf("decode business location %s: %w", rawID, err)
		}
		loc.MonthlyTurnover = floatPtr(turnover)
		loc.AverageTransaction = floatPtr(average)
		if weeks.Valid {
			w := int(weeks.Int64)
			loc.SeasonalWeeks = &w
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business locations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) loadPersons(ctx context.Context, q dbExecutor, table, key string) ([]models.Person, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, first_name, last_name, email, phone, birth_date, birth_number, citizenship, position,
			address, document_type, document_number, document_validity, ownership_percentage,
			is_politically_exposed, is_us_citizen
		FROM %s WHERE case_id = $1
		ORDER BY created_at, id`, table), key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.Person
	for rows.Next() {
		var (
			p           models.Person
			rawID       string
			address     []byte
			ownership   sql.NullFloat64
			pep, usCiti sql.NullBool
		)
		if err := rows.Scan(&rawID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.BirthDate,
			&p.BirthNumber, &p.Citizenship, &p.Position, &address, &p.DocumentType, &p.DocumentNumber,
			&p.DocumentValidity, &ownership, &pep, &usCiti); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if p.ID, err = id.ParsePersonID(rawID); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if err := decode(address, &p.Address); err != nil {
			return nil, fmt.Errorf("decode %s address: %w", table, err)
		}
		p.OwnershipPercentage = floatPtr(ownership)
		p.IsPoliticallyExposed = boolPtr(pep)
		p.IsUSCitizen = boolPtr(usCiti)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func (s *PostgresStore) loadDevices(ctx context.Context, q dbExecutor, key string, sel *models.DeviceSelection) error {
	var cards []byte
	var regulated, unregulated sql.NullFloat64
	err := q.QueryRowContext(ctx, `
		SELECT dynamic_cards, note, regulated_cards_fee, unregulated_cards_fee
		FROM device_selection WHERE case_id = $1`, key).Scan(&cards, &sel.Note, &regulated, &unregulated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load device selection: %w", err)
	}
	if err := decode(cards, &sel.DynamicCards); err != nil {
		return fmt.Errorf("decode dynamic cards: %w", err)
	}
	sel.Fees.RegulatedCards = floatPtr(regulated)
	sel.Fees.UnregulatedCards = floatPtr(unregulated)
	return nil
}

func (s *PostgresStore) loadConsents(ctx context.Context, q dbExecutor, key string, c *models.Consents) error {
	var gdpr, terms, electronic sql.NullBool
	var signer sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT gdpr_consent, terms_consent, electronic_communication_consent,
			signature_date, signature_place, signing_person_id
		FROM consents WHERE case_id = $1`, key).Scan(
		&gdpr, &terms, &electronic, &c.SignatureDate, &c.SignaturePlace, &signer,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load consents: %w", err)
	}
	c.GDPR = boolPtr(gdpr)
	c.Terms = boolPtr(terms)
	c.ElectronicCommunication = boolPtr(electronic)
	if signer.Valid {
		personID, err := id.ParsePersonID(signer.String)
		if err != nil {
			return fmt.Errorf("load consents signer: %w", err)
		}
		c.SigningPersonID = &personID
	}
	return nil
}

func encodeLocation(loc models.BusinessLocation) (address, contact, accounts, hours []byte, err error) {
	if address, err = json.Marshal(loc.Address); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode location address: %w", err)
	}
	if contact, err = json.Marshal(loc.ContactPerson); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode location contact: %w", err)
	}
	bank := loc.BankAccounts
	if bank == nil {
		bank = []models.BankAccount{}
	}
	if accounts, err = json.Marshal(bank); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode bank accounts: %w", err)
	}
	opening := loc.OpeningHours
	if opening == nil {
		opening = []models.OpeningHours{}
	}
	if hours, err = json.Marshal(opening); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode opening hours: %w", err)
	}
	return address, contact, accounts, hours, nil
}

// CategoryCounts normalizes the card list to a quantity per category.
func CategoryCounts(cards []models.DynamicCard) map[string]int {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c.Category] += c.Count
	}
	return counts
}

// TotalSimCards sums the SIM cards all device cards bring.
func TotalSimCards(cards []models.DynamicCard) int {
	total := 0
	for _, c := range cards {
		total += c.SimCount()
	}
	return total
}

func decode(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
