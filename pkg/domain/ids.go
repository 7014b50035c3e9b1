// Package domain holds identifier types shared by every onboarding module.
//
// IDs are distinct named UUID types so a location ID can never be passed where
// a person ID is expected. Construct them with the Parse* functions at trust
// boundaries and with New* when the caller generates a stable id.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
)

// CaseID identifies one onboarding case (contract) and partitions every store.
type CaseID uuid.UUID

// SessionID identifies one editor's presence/analytics session token.
type SessionID uuid.UUID

// UserID identifies the staff member owning a session.
type UserID uuid.UUID

// LocationID is the caller-generated stable id of a business location.
type LocationID uuid.UUID

// PersonID is the caller-generated stable id of an authorized person or owner.
type PersonID uuid.UUID

// CardID identifies one device/service card.
type CardID uuid.UUID

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID("case_id", s)
	return CaseID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID("session_id", s)
	return SessionID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user_id", s)
	return UserID(u), err
}

func ParseLocationID(s string) (LocationID, error) {
	u, err := parseUUID("location_id", s)
	return LocationID(u), err
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID("person_id", s)
	return PersonID(u), err
}

func NewCaseID() CaseID         { return CaseID(uuid.New()) }
func NewSessionID() SessionID   { return SessionID(uuid.New()) }
func NewLocationID() LocationID { return LocationID(uuid.New()) }
func NewPersonID() PersonID     { return PersonID(uuid.New()) }
func NewCardID() CardID         { return CardID(uuid.New()) }

func (id CaseID) String() string     { return uuid.UUID(id).String() }
func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id LocationID) String() string { return uuid.UUID(id).String() }
func (id PersonID) String() string   { return uuid.UUID(id).String() }
func (id CardID) String() string     { return uuid.UUID(id).String() }

func (id CaseID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id LocationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CardID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Text marshalling keeps IDs as canonical strings in JSON documents and
// therefore in the aggregate's content signature.

func (id CaseID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id UserID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id LocationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id PersonID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id CardID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *CaseID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *UserID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *LocationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PersonID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CardID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
