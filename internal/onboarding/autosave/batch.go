package autosave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/onboarding/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	dErrors "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain-errors"
)

// BatchError is the single failure reported for a batch in which at least one
// write failed. Writes listed in Succeeded stay persisted.
type BatchError struct {
	Failed    []EntityRef
	Succeeded []EntityRef
	Err       error
}

func (e *BatchError) Error() string {
	refs := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		refs[i] = r.String()
	}
	return fmt.Sprintf("auto-save failed for %d of %d entities (%s): %v",
		len(e.Failed), len(e.Failed)+len(e.Succeeded), strings.Join(refs, ", "), e.Err)
}

// Unwrap exposes the coded persistence failure so dErrors.HasCode matches.
func (e *BatchError) Unwrap() error {
	return dErrors.Wrap(e.Err, dErrors.CodePersistenceFailure, "auto-save batch failed")
}

// IsBatchError reports whether err is, or wraps, a *BatchError.
func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}

// operation is one write of a batch.
type operation struct {
	ref EntityRef
	// digest is recorded for ref once the write succeeds. Prunes leave it empty.
	digest string
	// forget lists refs dropped from the persisted snapshot once a prune succeeds.
	forget []EntityRef
	run    func(ctx context.Context) error
}

// planBatch diffs data against the persisted snapshot and returns the writes
// needed to bring the store up to date. Unchanged entities are skipped.
func planBatch(caseID id.CaseID, store Store, data models.OnboardingData, persisted map[EntityRef]string) ([]operation, error) {
	p := planner{caseID: caseID, persisted: persisted}

	if data.ContactInfo != (models.ContactInfo{}) {
		contact := data.ContactInfo
		p.add(EntityRef{Kind: EntityContact}, contact, func(ctx context.Context) error {
			return store.UpsertContact(ctx, caseID, contact)
		})
	}
	if companyPopulated(data.CompanyInfo) {
		company := data.CompanyInfo
		p.add(EntityRef{Kind: EntityCompany}, company, func(ctx context.Context) error {
			return store.UpsertCompany(ctx, caseID, company)
		})
	}

	current := make(map[EntityRef]bool)
	locationIDs := make([]id.LocationID, 0, len(data.BusinessLocations))
	for _, loc := range data.BusinessLocations {
		ref := EntityRef{Kind: EntityLocation, ID: loc.ID.String()}
		current[ref] = true
		locationIDs = append(locationIDs, loc.ID)
		p.add(ref, loc, func(ctx context.Context) error {
			return store.UpsertLocation(ctx, caseID, loc)
		})
	}
	authorizedIDs := make([]id.PersonID, 0, len(data.AuthorizedPersons))
	for _, person := range data.AuthorizedPersons {
		ref := EntityRef{Kind: EntityAuthorizedPerson, ID: person.ID.String()}
		current[ref] = true
		authorizedIDs = append(authorizedIDs, person.ID)
		p.add(ref, person, func(ctx context.Context) error {
			return store.UpsertAuthorizedPerson(ctx, caseID, person)
		})
	}
	ownerIDs := make([]id.PersonID, 0, len(data.ActualOwners))
	for _, person := range data.ActualOwners {
		ref := EntityRef{Kind: EntityOwner, ID: person.ID.String()}
		current[ref] = true
		ownerIDs = append(ownerIDs, person.ID)
		p.add(ref, person, func(ctx context.Context) error {
			return store.UpsertOwner(ctx, caseID, person)
		})
	}

	if devicesPopulated(data.DeviceSelection) {
		sel := data.DeviceSelection
		p.add(EntityRef{Kind: EntityDeviceSelection}, sel, func(ctx context.Context) error {
			return store.UpsertDeviceSelection(ctx, caseID, sel)
		})
	}
	if data.Consents != (models.Consents{}) {
		consents := data.Consents
		p.add(EntityRef{Kind: EntityConsents}, consents, func(ctx context.Context) error {
			return store.UpsertConsents(ctx, caseID, consents)
		})
	}

	p.prune(EntityLocation, EntityLocationPrune, current, func(ctx context.Context) error {
		return store.PruneLocations(ctx, caseID, locationIDs)
	})
	p.prune(EntityAuthorizedPerson, EntityAuthorizedPrune, current, func(ctx context.Context) error {
		return store.PruneAuthorizedPersons(ctx, caseID, authorizedIDs)
	})
	p.prune(EntityOwner, EntityOwnerPrune, current, func(ctx context.Context) error {
		return store.PruneOwners(ctx, caseID, ownerIDs)
	})

	if p.err != nil {
		return nil, p.err
	}
	return p.ops, nil
}

type planner struct {
	caseID    id.CaseID
	persisted map[EntityRef]string
	ops       []operation
	err       error
}

func (p *planner) add(ref EntityRef, v any, run func(ctx context.Context) error) {
	if p.err != nil {
		return
	}
	d, err := digest(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", ref, err)
		return
	}
	if p.persisted[ref] == d {
		return
	}
	p.ops = append(p.ops, operation{ref: ref, digest: d, run: run})
}

// prune schedules one delete for a list group when the snapshot still holds
// members the aggregate no longer has.
func (p *planner) prune(member, kind EntityKind, current map[EntityRef]bool, run func(ctx context.Context) error) {
	var gone []EntityRef
	for ref := range p.persisted {
		if ref.Kind == member && !current[ref] {
			gone = append(gone, ref)
		}
	}
	if len(gone) == 0 {
		return
	}
	p.ops = append(p.ops, operation{ref: EntityRef{Kind: kind}, forget: gone, run: run})
}

func companyPopulated(c models.CompanyInfo) bool {
	return c != (models.CompanyInfo{})
}

func devicesPopulated(d models.DeviceSelection) bool {
	return len(d.DynamicCards) > 0 || strings.TrimSpace(d.Note) != "" || d.Fees != (models.Fees{})
}
