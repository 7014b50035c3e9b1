package httptransport

import (
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/progress"
	presencemodels "github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
)

// SessionResponse is returned by every endpoint that changes the aggregate.
type SessionResponse struct {
	SessionID string                `json:"session_id"`
	CaseID    string                `json:"case_id"`
	Data      models.OnboardingData `json:"data"`
	Progress  ProgressResponse      `json:"progress"`
	SaveState string                `json:"save_state"`
	SaveError string                `json:"save_error,omitempty"`
}

type ProgressResponse struct {
	Steps             []StepResponse `json:"steps"`
	CompletedSteps    int            `json:"completed_steps"`
	TotalSteps        int            `json:"total_steps"`
	OverallPercentage int            `json:"overall_percentage"`
}

type StepResponse struct {
	Index                int      `json:"index"`
	Name                 string   `json:"name"`
	RequiredFields       []string `json:"required_fields"`
	CompletedFields      []string `json:"completed_fields"`
	CompletionPercentage int      `json:"completion_percentage"`
	IsComplete           bool     `json:"is_complete"`
	Visited              bool     `json:"visited"`
}

// ContactResponse adds what auto-fill derived from the contact.
type ContactResponse struct {
	SessionResponse
	Autofill AutofillResponse `json:"autofill"`
}

type AutofillResponse struct {
	AddedOwners            int  `json:"added_owners"`
	AddedAuthorizedPersons int  `json:"added_authorized_persons"`
	AddedLocations         int  `json:"added_locations"`
	SigningPersonSet       bool `json:"signing_person_set"`
	TechnicalContactSet    bool `json:"technical_contact_set"`
	LocationContactsSet    int  `json:"location_contacts_set"`
}

type PresenceResponse struct {
	Active    []presencemodels.Session `json:"active"`
	Conflicts []ConflictResponse       `json:"conflicts"`
}

type ConflictResponse struct {
	FieldPath  string   `json:"field_path"`
	SessionIDs []string `json:"session_ids"`
}

func FromSession(v SessionView) SessionResponse {
	resp := SessionResponse{
		SessionID: v.Token.String(),
		CaseID:    v.CaseID.String(),
		Data:      v.Data,
		Progress:  FromOverview(v.Progress),
		SaveState: v.SaveState.String(),
	}
	if v.SaveError != nil {
		resp.SaveError = v.SaveError.Error()
	}
	return resp
}

func FromOverview(o progress.Overview) ProgressResponse {
	steps := make([]StepResponse, 0, len(o.Steps))
	for _, s := range o.Steps {
		steps = append(steps, FromStep(s))
	}
	return ProgressResponse{
		Steps:             steps,
		CompletedSteps:    o.CompletedSteps,
		TotalSteps:        o.TotalSteps,
		OverallPercentage: o.OverallPercentage,
	}
}

func FromStep(s progress.StepProgress) StepResponse {
	return StepResponse{
		Index:                s.Index,
		Name:                 s.Name,
		RequiredFields:       nonNil(s.RequiredFields),
		CompletedFields:      nonNil(s.CompletedFields),
		CompletionPercentage: s.CompletionPercentage,
		IsComplete:           s.IsComplete,
		Visited:              s.Visited,
	}
}

func FromPatch(p models.Patch) AutofillResponse {
	return AutofillResponse{
		AddedOwners:            len(p.AppendOwners),
		AddedAuthorizedPersons: len(p.AppendAuthorizedPersons),
		AddedLocations:         len(p.AppendLocations),
		SigningPersonSet:       p.SigningPersonID != nil,
		TechnicalContactSet:    p.TechnicalContact != nil,
		LocationContactsSet:    len(p.LocationContacts),
	}
}

func FromPresence(v PresenceView) PresenceResponse {
	resp := PresenceResponse{
		Active:    v.Active,
		Conflicts: make([]ConflictResponse, 0, len(v.Conflicts)),
	}
	if resp.Active == nil {
		resp.Active = []presencemodels.Session{}
	}
	for _, c := range v.Conflicts {
		ids := make([]string, 0, len(c.Sessions))
		for _, s := range c.Sessions {
			ids = append(ids, s.String())
		}
		resp.Conflicts = append(resp.Conflicts, ConflictResponse{FieldPath: c.FieldPath, SessionIDs: ids})
	}
	return resp
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
