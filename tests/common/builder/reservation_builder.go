//go:build unit || e2e

package builder

import (
	"time"

	"booking-core/internal/domain/reservation"
	reqdto "booking-core/internal/handler/dto/request"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationBuilder struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BusinessID   uuid.UUID
	ResourceID   uuid.UUID
	ResourceName string
	ResourceKind string
	StartAt      time.Time
	EndAt        time.Time
	Guests       int
	Status       reservation.Status
	AmountCents  int64
	Currency     string
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	created := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BusinessID:   uuid.New(),
		ResourceID:   uuid.New(),
		ResourceName: "Room 101",
		ResourceKind: "room",
		StartAt:      time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC),
		Guests:       2,
		Status:       reservation.StatusPending,
		AmountCents:  45000,
		Currency:     "USD",
		Note:         "Late check-in",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDraft() (reservation.Draft, error) {
	iv, err := reservation.NewInterval(r.StartAt, r.EndAt)
	if err != nil {
		return reservation.Draft{}, err
	}
	return reservation.Draft{
		UserID:      r.UserID,
		Interval:    iv,
		Guests:      r.Guests,
		AmountCents: r.AmountCents,
		Currency:    r.Currency,
		Note:        r.Note,
	}, nil
}

func (r *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	iv, err := reservation.NewInterval(r.StartAt, r.EndAt)
	if err != nil {
		return nil, err
	}
	guests, err := reservation.NewGuestCount(r.Guests)
	if err != nil {
		return nil, err
	}
	amount, err := reservation.NewMoney(r.AmountCents, r.Currency)
	if err != nil {
		return nil, err
	}
	note, err := reservation.NewNote(r.Note)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		r.ID, r.UserID, r.BusinessID, r.ResourceID,
		iv, guests, r.Status, amount, note,
		r.CreatedAt, r.UpdatedAt,
	), nil
}

func (r *ReservationBuilder) BuildInfra() sqlc.Reservations {
	return sqlc.Reservations{
		ID:               r.ID,
		UserID:           r.UserID,
		BusinessID:       r.BusinessID,
		ResourceID:       r.ResourceID,
		StartAt:          pgtype.Timestamptz{Time: r.StartAt, Valid: true},
		EndAt:            pgtype.Timestamptz{Time: r.EndAt, Valid: true},
		GuestCount:       int32(r.Guests), // #nosec G115 -- test fixture
		Status:           r.Status.String(),
		TotalAmountCents: r.AmountCents,
		Currency:         r.Currency,
		SpecialRequest:   pgtype.Text{String: r.Note, Valid: r.Note != ""},
		CreatedAt:        pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
		UpdatedAt:        pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               r.ID,
		UserID:           r.UserID,
		BusinessID:       r.BusinessID,
		ResourceID:       r.ResourceID,
		ResourceName:     r.ResourceName,
		ResourceKind:     r.ResourceKind,
		StartAt:          r.StartAt,
		EndAt:            r.EndAt,
		GuestCount:       r.Guests,
		Status:           r.Status.String(),
		TotalAmountCents: r.AmountCents,
		Currency:         r.Currency,
		SpecialRequest:   r.notePtr(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *ReservationBuilder) BuildHotelRequestDTO() reqdto.CreateHotelReservationRequest {
	return reqdto.CreateHotelReservationRequest{
		BusinessID:       r.BusinessID,
		RoomID:           r.ResourceID,
		StartDate:        r.StartAt.Format(time.DateOnly),
		EndDate:          r.EndAt.Format(time.DateOnly),
		Guests:           r.Guests,
		TotalAmountCents: r.AmountCents,
		Currency:         r.Currency,
		Note:             r.notePtr(),
	}
}

func (r *ReservationBuilder) BuildRestaurantRequestDTO() reqdto.CreateRestaurantReservationRequest {
	return reqdto.CreateRestaurantReservationRequest{
		BusinessID:       r.BusinessID,
		TableID:          r.ResourceID,
		StartDate:        r.StartAt.Format(time.RFC3339),
		EndDate:          r.EndAt.Format(time.RFC3339),
		Guests:           r.Guests,
		TotalAmountCents: r.AmountCents,
		Currency:         r.Currency,
		Note:             r.notePtr(),
	}
}

func (r *ReservationBuilder) notePtr() *string {
	if r.Note == "" {
		return nil
	}
	n := r.Note
	return &n
}

// Fluent builder methods
func (r *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	r.ID = id
	return r
}

func (r *ReservationBuilder) WithUserID(userID uuid.UUID) *ReservationBuilder {
	r.UserID = userID
	return r
}

func (r *ReservationBuilder) WithResource(resourceID, businessID uuid.UUID) *ReservationBuilder {
	r.ResourceID = resourceID
	r.BusinessID = businessID
	return r
}

func (r *ReservationBuilder) WithPeriod(start, end time.Time) *ReservationBuilder {
	r.StartAt = start
	r.EndAt = end
	return r
}

func (r *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) AsConfirmed() *ReservationBuilder {
	r.Status = reservation.StatusConfirmed
	return r
}

func (r *ReservationBuilder) AsCancelled() *ReservationBuilder {
	r.Status = reservation.StatusCancelled
	return r
}

func (r *ReservationBuilder) AsTable() *ReservationBuilder {
	r.ResourceKind = "table"
	r.ResourceName = "Table 7"
	r.StartAt = time.Date(2024, 10, 15, 19, 0, 0, 0, time.UTC)
	r.EndAt = time.Date(2024, 10, 15, 21, 0, 0, 0, time.UTC)
	return r
}
