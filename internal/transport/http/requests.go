package httptransport

import (
	"strings"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/validation"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
)

const maxDisplayNameLength = 120

// OpenSessionRequest is the body of POST /cases/{caseID}/sessions.
type OpenSessionRequest struct {
	DisplayName string `json:"display_name"`
}

func (r *OpenSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if len(r.DisplayName) > maxDisplayNameLength {
		return dErrors.New(dErrors.CodeValidation, "display_name is too long")
	}
	return nil
}

// ContactRequest is the body of PUT /sessions/{token}/contact. Drafts are
// accepted: only values that are present must be well formed.
type ContactRequest struct {
	models.ContactInfo
}

func (r *ContactRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	switch r.Role {
	case "", models.RoleOwner, models.RoleManagingDirector, models.RoleStatutoryRepresentative,
		models.RoleTechnicalContact, models.RoleLocationContact:
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown contact role")
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is malformed")
	}
	if r.Phone != "" && !validation.IsValidPhone(r.Phone) {
		return dErrors.New(dErrors.CodeValidation, "phone is malformed")
	}
	return nil
}

// CompanyRequest is the body of PUT /sessions/{token}/company.
type CompanyRequest struct {
	models.CompanyInfo
}

func (r *CompanyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.ICO = strings.TrimSpace(r.ICO)
	return nil
}

// DevicesRequest is the body of PUT /sessions/{token}/devices.
type DevicesRequest struct {
	models.DeviceSelection
}

func (r *DevicesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for _, card := range r.DynamicCards {
		if card.Count < 0 {
			return dErrors.New(dErrors.CodeValidation, "card count must not be negative")
		}
	}
	return nil
}

// ConsentsRequest is the body of PUT /sessions/{token}/consents.
type ConsentsRequest struct {
	models.Consents
}

func (r *ConsentsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.SignaturePlace = strings.TrimSpace(r.SignaturePlace)
	return nil
}
