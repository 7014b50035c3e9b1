package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
	txcontext "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/tx"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

const (
	tableAuthorizedPersons = "authorized_persons"
	tableActualOwners      = "actual_owners"
)

// PostgresStore persists cases in PostgreSQL. Nested value objects (addresses,
// contact persons, bank accounts, cards) are stored as jsonb.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed case store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) UpsertContact(ctx context.Context, caseID id.CaseID, c models.ContactInfo) error {
	query := `
		INSERT INTO contact_info (case_id, salutation, first_name, last_name, email, phone_prefix, phone, role, note, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (case_id) DO UPDATE SET
			salutation = EXCLUDED.salutation,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone_prefix = EXCLUDED.phone_prefix,
			phone = EXCLUDED.phone,
			role = EXCLUDED.role,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		caseID.String(), c.Salutation, c.FirstName, c.LastName, c.Email,
		c.PhonePrefix, c.Phone, string(c.Role), c.Note, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("upsert contact info: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, caseID id.CaseID, c models.CompanyInfo) error {
	address, err := json.Marshal(c.Address)
	if err != nil {
		return fmt.Errorf("encode company address: %w", err)
	}
	var contactAddress []byte
	if c.ContactAddress != nil {
		if contactAddress, err = json.Marshal(c.ContactAddress); err != nil {
			return fmt.Errorf("encode company contact address: %w", err)
		}
	}
	contactPerson, err := json.Marshal(c.ContactPerson)
	if err != nil {
		return fmt.Errorf("encode company contact person: %w", err)
	}
	query := `
		INSERT INTO company_info (case_id, company_name, ico, dic, vat_number, registry_court, registry_insert,
			address, contact_address, contact_address_same_as_main, contact_person, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (case_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			ico = EXCLUDED.ico,
			dic = EXCLUDED.dic,
			vat_number = EXCLUDED.vat_number,
			registry_court = EXCLUDED.registry_court,
			registry_insert = EXCLUDED.registry_insert,
			address = EXCLUDED.address,
			contact_address = EXCLUDED.contact_address,
			contact_address_same_as_main = EXCLUDED.contact_address_same_as_main,
			contact_person = EXCLUDED.contact_person,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		caseID.String(), c.CompanyName, c.ICO, c.DIC, c.VATNumber, c.RegistryCourt, c.RegistryInsert,
		address, contactAddress, c.ContactAddressSameAsMain, contactPerson, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("upsert company info: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertLocation(ctx context.Context, caseID id.CaseID, loc models.BusinessLocation) error {
	address, contact, accounts, hours, err := encodeLocation(loc)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	query := `
		INSERT INTO business_locations (id, case_id, name, address, contact_person, bank_accounts, business_subject,
			mcc_code, monthly_turnover, average_transaction, opening_hours, seasonal, seasonal_weeks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		ON CONFLICT (case_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			contact_person = EXCLUDED.contact_person,
			bank_accounts = EXCLUDED.bank_accounts,
			business_subject = EXCLUDED.business_subject,
			mcc_code = EXCLUDED.mcc_code,
			monthly_turnover = EXCLUDED.monthly_turnover,
			average_transaction = EXCLUDED.average_transaction,
			opening_hours = EXCLUDED.opening_hours,
			seasonal = EXCLUDED.seasonal,
			seasonal_weeks = EXCLUDED.seasonal_weeks,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		loc.ID.String(), caseID.String(), loc.Name, address, contact, accounts, loc.BusinessSubject,
		loc.MCCCode, nullFloat(loc.MonthlyTurnover), nullFloat(loc.AverageTransaction), hours,
		loc.Seasonal, nullInt(loc.SeasonalWeeks), now,
	)
	if err != nil {
		return fmt.Errorf("upsert business location: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertAuthorizedPerson(ctx context.Context, caseID id.CaseID, p models.Person) error {
	return s.upsertPerson(ctx, tableAuthorizedPersons, caseID, p)
}

func (s *PostgresStore) UpsertOwner(ctx context.Context, caseID id.CaseID, p models.Person) error {
	return s.upsertPerson(ctx, tableActualOwners, caseID, p)
}

func (s *PostgresStore) upsertPerson(ctx context.Context, table string, caseID id.CaseID, p models.Person) error {
	address, err := json.Marshal(p.Address)
	if err != nil {
		return fmt.Errorf("encode person address: %w", err)
	}
	now := requestcontext.Now(ctx)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, case_id, first_name, last_name, email, phone, birth_date, birth_number, citizenship,
			position, address, document_type, document_number, document_validity, ownership_percentage,
			is_politically_exposed, is_us_citizen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (case_id, id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			birth_date = EXCLUDED.birth_date,
			birth_number = EXCLUDED.birth_number,
			citizenship = EXCLUDED.citizenship,
			position = EXCLUDED.position,
			address = EXCLUDED.address,
			document_type = EXCLUDED.document_type,
			document_number = EXCLUDED.document_number,
			document_validity = EXCLUDED.document_validity,
			ownership_percentage = EXCLUDED.ownership_percentage,
			is_politically_exposed = EXCLUDED.is_politically_exposed,
			is_us_citizen = EXCLUDED.is_us_citizen,
			updated_at = EXCLUDED.updated_at
	`, table)
	_, err = s.execer(ctx).ExecContext(ctx, query,
		p.ID.String(), caseID.String(), p.FirstName, p.LastName, p.Email, p.Phone, p.BirthDate,
		p.BirthNumber, p.Citizenship, p.Position, address, p.DocumentType, p.DocumentNumber,
		p.DocumentValidity, nullFloat(p.OwnershipPercentage), nullBool(p.IsPoliticallyExposed),
		nullBool(p.IsUSCitizen), now,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (s *PostgresStore) UpsertDeviceSelection(ctx context.Context, caseID id.CaseID, sel models.DeviceSelection) error {
	cards, err := json.Marshal(nonNilCards(sel.DynamicCards))
	if err != nil {
		return fmt.Errorf("encode dynamic cards: %w", err)
	}
	counts, err := json.Marshal(CategoryCounts(sel.DynamicCards))
	if err != nil {
		return fmt.Errorf("encode category counts: %w", err)
	}
	query := `
		INSERT INTO device_selection (case_id, dynamic_cards, category_counts, total_sim_cards, note,
			regulated_cards_fee, unregulated_cards_fee, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (case_id) DO UPDATE SET
			dynamic_cards = EXCLUDED.dynamic_cards,
			category_counts = EXCLUDED.category_counts,
			total_sim_cards = EXCLUDED.total_sim_cards,
			note = EXCLUDED.note,
			regulated_cards_fee = EXCLUDED.regulated_cards_fee,
			unregulated_cards_fee = EXCLUDED.unregulated_cards_fee,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		caseID.String(), cards, counts, TotalSimCards(sel.DynamicCards), sel.Note,
		nullFloat(sel.Fees.RegulatedCards), nullFloat(sel.Fees.UnregulatedCards), requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("upsert device selection: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertConsents(ctx context.Context, caseID id.CaseID, c models.Consents) error {
	var signer any
	if c.SigningPersonID != nil {
		signer = c.SigningPersonID.String()
	}
	query := `
		INSERT INTO consents (case_id, gdpr_consent, terms_consent, electronic_communication_consent,
			signature_date, signature_place, signing_person_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (case_id) DO UPDATE SET
			gdpr_consent = EXCLUDED.gdpr_consent,
			terms_consent = EXCLUDED.terms_consent,
			electronic_communication_consent = EXCLUDED.electronic_communication_consent,
			signature_date = EXCLUDED.signature_date,
			signature_place = EXCLUDED.signature_place,
			signing_person_id = EXCLUDED.signing_person_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		caseID.String(), nullBool(c.GDPR), nullBool(c.Terms), nullBool(c.ElectronicCommunication),
		c.SignatureDate, c.SignaturePlace, signer, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("upsert consents: %w", err)
	}
	return nil
}

func (s *PostgresStore) PruneLocations(ctx context.Context, caseID id.CaseID, keep []id.LocationID) error {
	return s.prune(ctx, "business_locations", caseID, idStrings(keep))
}

func (s *PostgresStore) PruneAuthorizedPersons(ctx context.Context, caseID id.CaseID, keep []id.PersonID) error {
	return s.prune(ctx, tableAuthorizedPersons, caseID, idStrings(keep))
}

func (s *PostgresStore) PruneOwners(ctx context.Context, caseID id.CaseID, keep []id.PersonID) error {
	return s.prune(ctx, tableActualOwners, caseID, idStrings(keep))
}

func (s *PostgresStore) prune(ctx context.Context, table string, caseID id.CaseID, keep []string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE case_id = $1 AND NOT (id = ANY($2::uuid[]))`, table)
	if _, err := s.execer(ctx).ExecContext(ctx, query, caseID.String(), pq.Array(keep)); err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}
	return nil
}

// CreateMerchant inserts the case's merchant account unless one exists.
func (s *PostgresStore) CreateMerchant(ctx context.Context, caseID id.CaseID, company models.CompanyInfo) (Merchant, bool, error) {
	m := Merchant{
		ID:          uuid.New(),
		CaseID:      caseID,
		CompanyName: company.CompanyName,
		ICO:         company.ICO,
		CreatedAt:   requestcontext.Now(ctx),
	}
	query := `
		INSERT INTO merchant_accounts (id, case_id, company_name, ico, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (case_id) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, m.ID, caseID.String(), m.CompanyName, m.ICO, m.CreatedAt)
	if err != nil {
		return Merchant{}, false, fmt.Errorf("create merchant account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Merchant{}, false, fmt.Errorf("create merchant account: %w", err)
	}
	if affected == 0 {
		existing, err := s.FindMerchant(ctx, caseID)
		return existing, false, err
	}
	return m, true, nil
}

func (s *PostgresStore) FindMerchant(ctx context.Context, caseID id.CaseID) (Merchant, error) {
	query := `SELECT id, company_name, ico, created_at FROM merchant_accounts WHERE case_id = $1`
	m := Merchant{CaseID: caseID}
	err := s.execer(ctx).QueryRowContext(ctx, query, caseID.String()).Scan(&m.ID, &m.CompanyName, &m.ICO, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Merchant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("find merchant account: %w", err)
	}
	return m, nil
}

func idStrings[T fmt.Stringer](ids []T) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nonNilCards(cards []models.DynamicCard) []models.DynamicCard {
	if cards == nil {
		return []models.DynamicCard{}
	}
	return cards
}
