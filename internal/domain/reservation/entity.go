package reservation

import (
	"time"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type Reservation struct {
	id         uuid.UUID
	userID     uuid.UUID
	businessID uuid.UUID
	resourceID uuid.UUID
	interval   Interval
	guests     GuestCount
	status     Status
	amount     Money
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

func ReconstructReservation(
	id, userID, businessID, resourceID uuid.UUID,
	interval Interval,
	guests GuestCount,
	status Status,
	amount Money,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		userID:     userID,
		businessID: businessID,
		resourceID: resourceID,
		interval:   interval,
		guests:     guests,
		status:     status,
		amount:     amount,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// NextStatus validates action against the current status and returns the
// status the reservation would move to. Completing requires the interval to
// have elapsed at now.
func (r *Reservation) NextStatus(action Action, now time.Time) (Status, error) {
	next, err := r.status.Next(action)
	if err != nil {
		return "", err
	}
	if action == ActionComplete && !r.interval.ElapsedAt(now) {
		return "", errs.Wrapf(errs.ErrInvalidTransition, "reservation %s ends at %s", r.id, r.interval.End().Format(time.RFC3339))
	}
	return next, nil
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) IsHeld() bool {
	return r.status.IsHeld()
}

func (r *Reservation) ID() uuid.UUID         { return r.id }
func (r *Reservation) UserID() uuid.UUID     { return r.userID }
func (r *Reservation) BusinessID() uuid.UUID { return r.businessID }
func (r *Reservation) ResourceID() uuid.UUID { return r.resourceID }
func (r *Reservation) Interval() Interval    { return r.interval }
func (r *Reservation) Guests() GuestCount    { return r.guests }
func (r *Reservation) Status() Status        { return r.status }
func (r *Reservation) Amount() Money         { return r.amount }
func (r *Reservation) Note() Note            { return r.note }
func (r *Reservation) CreatedAt() time.Time  { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time  { return r.updatedAt }
