package analytics

import (
	"context"
	"errors"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
)

// Fanout appends each event to every store and joins their errors.
type Fanout []Store

func (f Fanout) Append(ctx context.Context, event models.StepEvent) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
