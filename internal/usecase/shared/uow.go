package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	sqlc "booking-core/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Idempotency() IdempotencyRepository
	Events() EventRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

type CommandReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	HeldIntervals(ctx context.Context) ([]HeldInterval, error)
	ElapsedConfirmed(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error)
	StalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*reservation.Reservation, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	// UpdateStatus is a compare-and-swap on the stored status. It fails with
	// KindConflict when the status is no longer expected, KindNotFound when
	// the row does not exist.
	UpdateStatus(ctx context.Context, tx sqlc.DBTX, id uuid.UUID, expected, next reservation.Status, at time.Time) (*reservation.Reservation, error)
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	ClaimExpired(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt, now time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID, reservationID uuid.UUID) error
	Delete(ctx context.Context, tx sqlc.DBTX, key, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx sqlc.DBTX, now time.Time) (int64, error)
}

type EventRepository interface {
	Append(ctx context.Context, tx sqlc.DBTX, ev ReservationEvent) error
	ListUnpublished(ctx context.Context, tx sqlc.DBTX, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, tx sqlc.DBTX, ids []int64, at time.Time) error
}
