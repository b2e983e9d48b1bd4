package readstore

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/readstore/reservation_mock.go -package=readstoremock

import (
	"context"
	"math"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationViewQueries interface {
	GetReservation(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationView(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetReservationViewRow, error)
	ListReservationsByUser(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByUserParams) ([]sqlc.ListReservationsByUserRow, error)
	ListReservationsByBusiness(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByBusinessParams) ([]sqlc.ListReservationsByBusinessRow, error)
	ListHeldReservations(ctx context.Context, db sqlc.DBTX) ([]sqlc.ListHeldReservationsRow, error)
	ListElapsedConfirmedReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListElapsedConfirmedReservationsParams) ([]sqlc.Reservations, error)
	ListStalePendingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListStalePendingReservationsParams) ([]sqlc.Reservations, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return rowToReservationView(row), nil
}

func (r *ReservationReadStore) FindByUserPage(ctx context.Context, userID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.ReservationView, error) {
	createdAt, lastID := keysetParams(after)
	rows, err := r.queries.ListReservationsByUser(ctx, r.db, sqlc.ListReservationsByUserParams{
		UserID:          userID,
		CursorCreatedAt: createdAt,
		CursorID:        lastID,
		PageLimit:       limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}

	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = rowToReservationView(sqlc.GetReservationViewRow(row))
	}
	return result, nil
}

func (r *ReservationReadStore) FindByBusinessPage(ctx context.Context, businessID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.ReservationView, error) {
	createdAt, lastID := keysetParams(after)
	rows, err := r.queries.ListReservationsByBusiness(ctx, r.db, sqlc.ListReservationsByBusinessParams{
		BusinessID:      businessID,
		CursorCreatedAt: createdAt,
		CursorID:        lastID,
		PageLimit:       limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by business", err)
	}

	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = rowToReservationView(sqlc.GetReservationViewRow(row))
	}
	return result, nil
}

// FindAggregate loads the write-side aggregate.
func (r *ReservationReadStore) FindAggregate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservation(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res, err := converter.ReservationFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation row", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *ReservationReadStore) FindHeld(ctx context.Context) ([]shared.HeldInterval, error) {
	rows, err := r.queries.ListHeldReservations(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list held reservations", err)
	}

	held := make([]shared.HeldInterval, len(rows))
	for i, row := range rows {
		held[i] = shared.HeldInterval{
			ReservationID: row.ID,
			ResourceID:    row.ResourceID,
			Start:         pgconv.TimeFromPgtype(row.StartAt),
			End:           pgconv.TimeFromPgtype(row.EndAt),
		}
	}
	return held, nil
}

func (r *ReservationReadStore) FindElapsedConfirmed(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListElapsedConfirmedReservations(ctx, r.db, sqlc.ListElapsedConfirmedReservationsParams{
		Now:       pgconv.TimeToPgtype(now),
		BatchSize: clampLimit(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list elapsed confirmed reservations", err)
	}
	return rowsToAggregates(rows)
}

func (r *ReservationReadStore) FindStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListStalePendingReservations(ctx, r.db, sqlc.ListStalePendingReservationsParams{
		Cutoff:    pgconv.TimeToPgtype(createdBefore),
		BatchSize: clampLimit(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale pending reservations", err)
	}
	return rowsToAggregates(rows)
}

func rowsToAggregates(rows []sqlc.Reservations) ([]*reservation.Reservation, error) {
	result := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := converter.ReservationFromRow(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert reservation row", err, infra.KindDBFailure)
		}
		result = append(result, res)
	}
	return result, nil
}

func keysetParams(after *queries.Keyset) (pgtype.Timestamptz, pgtype.UUID) {
	if after == nil {
		return pgtype.Timestamptz{}, pgtype.UUID{}
	}
	return pgconv.TimeToPgtype(after.CreatedAt), pgconv.UUIDToPgtype(after.ID)
}

func clampLimit(limit int) int32 {
	if limit <= 0 {
		return 100
	}
	if limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(limit) // #nosec G115 -- bounded above
}

func rowToReservationView(row sqlc.GetReservationViewRow) *queries.ReservationView {
	var note *string
	if row.SpecialRequest.Valid {
		s := row.SpecialRequest.String
		note = &s
	}
	return &queries.ReservationView{
		ID:               row.ID,
		UserID:           row.UserID,
		BusinessID:       row.BusinessID,
		ResourceID:       row.ResourceID,
		ResourceName:     row.ResourceName,
		ResourceKind:     row.ResourceKind,
		StartAt:          pgconv.TimeFromPgtype(row.StartAt),
		EndAt:            pgconv.TimeFromPgtype(row.EndAt),
		GuestCount:       int(row.GuestCount),
		Status:           row.Status,
		TotalAmountCents: row.TotalAmountCents,
		Currency:         row.Currency,
		SpecialRequest:   note,
		CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
