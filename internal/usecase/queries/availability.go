package queries

//go:generate mockgen -source=availability.go -destination=../../../tests/mock/queries/availability_mock.go -package=queriesmock

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error)
}

// FreeChecker is the read side of the availability index.
type FreeChecker interface {
	IsFree(resourceID uuid.UUID, iv reservation.Interval) bool
}

type AvailabilityQueries interface {
	CheckAvailability(ctx context.Context, businessID, resourceID uuid.UUID, start, end time.Time) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	resources ResourceReadStore
	index     FreeChecker
}

func NewAvailabilityQueries(resources ResourceReadStore, index FreeChecker) AvailabilityQueries {
	return &availabilityQueriesImpl{resources: resources, index: index}
}

// CheckAvailability answers from the in-memory index. The result is advisory;
// a later booking can still lose the race.
func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, businessID, resourceID uuid.UUID, start, end time.Time) (*AvailabilityView, error) {
	iv, err := reservation.NewInterval(start, end)
	if err != nil {
		return nil, err
	}

	res, err := q.resources.FindByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrResourceNotFound
		}
		return nil, err
	}
	if res.BusinessID != businessID {
		return nil, errs.ErrResourceNotFound
	}

	return &AvailabilityView{
		BusinessID: businessID,
		ResourceID: resourceID,
		StartAt:    iv.Start(),
		EndAt:      iv.End(),
		Available:  q.index.IsFree(resourceID, iv),
	}, nil
}
