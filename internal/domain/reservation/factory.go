package reservation

import (
	"booking-core/internal/domain/resource"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// Draft is an unvalidated booking request against a resolved resource.
type Draft struct {
	UserID      uuid.UUID
	Interval    Interval
	Guests      int
	AmountCents int64
	Currency    string
	Note        string
}

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clock clock.Clock) *Factory {
	return &Factory{
		Clock: clock,
	}
}

// CreateReservation validates a draft and returns a new PENDING reservation
// with a fresh id.
func (f *Factory) CreateReservation(res *resource.Resource, d Draft) (*Reservation, error) {
	if d.Interval.start.IsZero() {
		return nil, errs.ErrInvalidInterval
	}
	guests, err := NewGuestCount(d.Guests)
	if err != nil {
		return nil, err
	}
	if err := res.Admits(guests.Int()); err != nil {
		return nil, err
	}
	amount, err := NewMoney(d.AmountCents, d.Currency)
	if err != nil {
		return nil, err
	}
	note, err := NewNote(d.Note)
	if err != nil {
		return nil, err
	}

	now := f.Clock.Now().UTC()
	return &Reservation{
		id:         uuid.New(),
		userID:     d.UserID,
		businessID: res.BusinessID(),
		resourceID: res.ID(),
		interval:   d.Interval,
		guests:     guests,
		status:     StatusPending,
		amount:     amount,
		note:       note,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}
