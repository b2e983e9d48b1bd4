package repository

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/repository/reservation_mock.go -package=repositorymock

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (sqlc.Reservations, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (sqlc.Reservations, error)
	ReservationExists(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (bool, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	params := converter.ReservationToCreateParams(res)

	row, err := r.queries.CreateReservation(ctx, tx, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return row.ID, nil
}

func (r *ReservationRepository) UpdateStatus(
	ctx context.Context,
	tx sqlc.DBTX,
	id uuid.UUID,
	expected, next reservation.Status,
	at time.Time,
) (*reservation.Reservation, error) {
	row, err := r.queries.UpdateReservationStatus(ctx, tx, sqlc.UpdateReservationStatusParams{
		NextStatus:     next.String(),
		UpdatedAt:      pgconv.TimeToPgtype(at),
		ID:             id,
		ExpectedStatus: expected.String(),
	})
	if err != nil {
		if !pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("failed to update reservation status", err)
		}
		// zero rows: either the row is gone or another writer moved the status
		exists, existsErr := r.queries.ReservationExists(ctx, tx, id)
		if existsErr != nil {
			return nil, infra.WrapRepoErr("failed to check reservation existence", existsErr)
		}
		if !exists {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("reservation status changed concurrently", err, infra.KindConflict)
	}

	res, err := converter.ReservationFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation row", err, infra.KindDBFailure)
	}
	return res, nil
}
