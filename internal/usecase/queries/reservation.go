package queries

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/reservation_mock.go -package=queriesmock

import (
	"context"
	"log/slog"

	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserPage(ctx context.Context, userID uuid.UUID, after *Keyset, limit int32) ([]*ReservationView, error)
	FindByBusinessPage(ctx context.Context, businessID uuid.UUID, after *Keyset, limit int32) ([]*ReservationView, error)
}

// ReservationCache is a read-through cache of single reservation views.
// A miss is reported as (nil, nil).
type ReservationCache interface {
	Get(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	Set(ctx context.Context, view *ReservationView) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem skips access checks; used for idempotent replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, actor shared.Actor, userID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error)
	ListByBusiness(ctx context.Context, actor shared.Actor, businessID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error)
}

type reservationQueriesImpl struct {
	repo  ReservationReadStore
	cache ReservationCache
}

func NewReservationQueries(repo ReservationReadStore, cache ReservationCache) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, cache: cache}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	if cached, err := q.cache.Get(ctx, id); err != nil {
		slog.Warn("reservation cache read failed", "reservation_id", id.String(), "error", err.Error())
	} else if cached != nil {
		return cached, nil
	}

	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, err
	}

	if err := q.cache.Set(ctx, view); err != nil {
		slog.Warn("reservation cache write failed", "reservation_id", id.String(), "error", err.Error())
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, actor shared.Actor, userID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error) {
	if !actor.CanAccess(userID) {
		return nil, nil, errs.ErrForbidden
	}

	limit = ValidateLimit(limit)
	after, err := decodeKeyset(cursor)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.repo.FindByUserPage(ctx, userID, after, int32(limit+1)) // #nosec G115 -- limit is bounded by ValidateLimit
	if err != nil {
		return nil, nil, err
	}
	rows, next := paginate(rows, limit)
	return rows, next, nil
}

func (q *reservationQueriesImpl) ListByBusiness(ctx context.Context, actor shared.Actor, businessID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error) {
	if !actor.Role.IsStaff() {
		return nil, nil, errs.ErrForbidden
	}

	limit = ValidateLimit(limit)
	after, err := decodeKeyset(cursor)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.repo.FindByBusinessPage(ctx, businessID, after, int32(limit+1)) // #nosec G115 -- limit is bounded by ValidateLimit
	if err != nil {
		return nil, nil, err
	}
	rows, next := paginate(rows, limit)
	return rows, next, nil
}
