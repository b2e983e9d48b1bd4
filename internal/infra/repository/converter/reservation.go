package converter

import (
	"math"

	"booking-core/internal/domain/reservation"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"
)

func ReservationToCreateParams(res *reservation.Reservation) sqlc.CreateReservationParams {
	guests := res.Guests().Int()
	if guests > math.MaxInt32 {
		guests = math.MaxInt32
	}

	return sqlc.CreateReservationParams{
		ID:               res.ID(),
		UserID:           res.UserID(),
		BusinessID:       res.BusinessID(),
		ResourceID:       res.ResourceID(),
		StartAt:          pgconv.TimeToPgtype(res.Interval().Start()),
		EndAt:            pgconv.TimeToPgtype(res.Interval().End()),
		GuestCount:       int32(guests), // #nosec G115 -- clamped above
		Status:           res.Status().String(),
		TotalAmountCents: res.Amount().Cents(),
		Currency:         res.Amount().Currency(),
		SpecialRequest:   pgconv.StringToPgtype(res.Note().String()),
		CreatedAt:        pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

// ReservationFromRow rebuilds the aggregate from a stored row. Rows are
// validated on the way in, so a failure here means corrupted data.
func ReservationFromRow(row sqlc.Reservations) (*reservation.Reservation, error) {
	interval, err := reservation.NewInterval(pgconv.TimeFromPgtype(row.StartAt), pgconv.TimeFromPgtype(row.EndAt))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	guests, err := reservation.NewGuestCount(int(row.GuestCount))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	amount, err := reservation.NewMoney(row.TotalAmountCents, row.Currency)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	note, err := reservation.NewNote(pgconv.StringFromPgtype(row.SpecialRequest))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}

	return reservation.ReconstructReservation(
		row.ID, row.UserID, row.BusinessID, row.ResourceID,
		interval,
		guests,
		status,
		amount,
		note,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
