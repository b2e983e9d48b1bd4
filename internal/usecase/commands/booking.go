package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking_mock.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/domain/resource"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const bookingEndpoint = "POST /reservations"

type BookingRequest struct {
	BusinessID  uuid.UUID     `json:"business_id"`
	ResourceID  uuid.UUID     `json:"resource_id"`
	Kind        resource.Kind `json:"kind"`
	StartAt     time.Time     `json:"start_at"`
	EndAt       time.Time     `json:"end_at"`
	Guests      int           `json:"guests"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Note        string        `json:"note"`
}

type BookingResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type BookingCommands interface {
	// Book places a PENDING reservation. A non-nil idempotencyKey makes the
	// call replayable for the same requester and request body.
	Book(ctx context.Context, actor shared.Actor, req BookingRequest, idempotencyKey *uuid.UUID) (*BookingResult, error)
}

type bookingUseCaseImpl struct {
	uow                shared.UnitOfWork
	index              AvailabilityIndex
	factory            *reservation.Factory
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	cfg                config.BookingConfig
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	index AvailabilityIndex,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	clock clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:                uow,
		index:              index,
		factory:            factory,
		reservationQueries: reservationQueries,
		clock:              clock,
		cfg:                cfg,
	}
}

func (uc *bookingUseCaseImpl) Book(
	ctx context.Context,
	actor shared.Actor,
	req BookingRequest,
	idempotencyKey *uuid.UUID,
) (*BookingResult, error) {
	if req.Currency == "" {
		req.Currency = uc.cfg.DefaultCurrency
	}

	if idempotencyKey != nil {
		replayed, err := uc.handleIdempotency(ctx, *idempotencyKey, actor.UserID, calculateRequestHash(req))
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return &BookingResult{Reservation: replayed, IsReplayed: true}, nil
		}
	}

	view, err := uc.book(ctx, actor, req, idempotencyKey)
	if err != nil {
		if idempotencyKey != nil {
			uc.forgetKey(context.WithoutCancel(ctx), *idempotencyKey, actor.UserID)
		}
		return nil, err
	}

	return &BookingResult{Reservation: view}, nil
}

// handleIdempotency claims the key for this request. It returns the stored
// reservation when the same request already completed.
func (uc *bookingUseCaseImpl) handleIdempotency(
	ctx context.Context,
	key, userID uuid.UUID,
	requestHash string,
) (*queries.ReservationView, error) {
	now := uc.clock.Now()
	expiresAt := now.Add(uc.cfg.IdempotencyTTL)

	var claimed bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, userID, bookingEndpoint, requestHash, expiresAt)
		if err != nil || inserted {
			claimed = inserted
			return err
		}
		claimed, err = tx.Idempotency().ClaimExpired(ctx, tx.DB(), key, userID, bookingEndpoint, requestHash, expiresAt, now)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := uc.uow.CommandReads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// released by a failed attempt between our insert and this read
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrDuplicateReservation
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.Mark(errs.New("completed request missing result reservation ID"), errs.ErrIdempotencyCheckFailed)
		}
		// Use system-level access for idempotency replay
		return uc.reservationQueries.GetByIDSystem(ctx, *existing.ResultReservationID)
	default:
		return nil, errs.ErrIdempotencyInProgress
	}
}

func (uc *bookingUseCaseImpl) book(
	ctx context.Context,
	actor shared.Actor,
	req BookingRequest,
	idempotencyKey *uuid.UUID,
) (*queries.ReservationView, error) {
	snap, res, err := uc.resolveResource(ctx, req)
	if err != nil {
		return nil, err
	}

	interval, err := reservation.NewInterval(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}

	entity, err := uc.factory.CreateReservation(res, reservation.Draft{
		UserID:      actor.UserID,
		Interval:    interval,
		Guests:      req.Guests,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Note:        req.Note,
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.reserve(ctx, res.ID(), interval, entity.ID())
	if err != nil {
		return nil, err
	}

	if err := uc.persist(ctx, entity, idempotencyKey); err != nil {
		// the hold must not outlive a reservation that was never stored
		uc.index.ReleaseToken(token)
		slog.Warn("released hold after failed persist",
			"reservation_id", entity.ID().String(),
			"resource_id", res.ID().String(),
			"error", err.Error())
		if errs.Is(err, context.Canceled) || errs.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if infra.IsKind(err, infra.KindExclusionViolated) {
			return nil, errs.Mark(err, errs.ErrSlotUnavailable)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("reservation created",
		"reservation_id", entity.ID().String(),
		"resource_id", res.ID().String(),
		"interval", interval.String())

	return reservationToView(entity, snap), nil
}

func (uc *bookingUseCaseImpl) resolveResource(ctx context.Context, req BookingRequest) (*shared.ResourceSnapshot, *resource.Resource, error) {
	snap, err := uc.uow.CommandReads().ResourceByID(ctx, req.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrResourceNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	res, err := resourceFromSnapshot(snap)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !res.BelongsTo(req.BusinessID) {
		return nil, nil, errs.ErrResourceNotFound
	}
	if err := res.EnsureKind(req.Kind); err != nil {
		return nil, nil, err
	}

	return snap, res, nil
}

// reserve takes the hold. A conflict made only of holds whose reservations
// are already terminal in storage is stale (another process moved them), so
// those holds are dropped and the reserve is retried exactly once.
func (uc *bookingUseCaseImpl) reserve(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval, ref uuid.UUID) (availability.Token, error) {
	token, err := uc.index.Reserve(resourceID, iv, ref)
	if err == nil {
		return token, nil
	}

	var conflict *availability.ConflictError
	if !errs.As(err, &conflict) || !uc.releaseStaleHolds(ctx, resourceID, conflict.Holds) {
		return availability.Token{}, err
	}

	return uc.index.Reserve(resourceID, iv, ref)
}

func (uc *bookingUseCaseImpl) releaseStaleHolds(ctx context.Context, resourceID uuid.UUID, holds []availability.Hold) bool {
	reads := uc.uow.CommandReads()
	for _, h := range holds {
		stored, err := reads.ReservationByID(ctx, h.Ref)
		if err != nil || !stored.Status().IsTerminal() {
			// not found means the owning booking is still in flight
			return false
		}
	}

	for _, h := range holds {
		uc.index.ReleaseToken(availability.Token{ResourceID: resourceID, Interval: h.Interval, Ref: h.Ref})
		slog.Info("released stale hold",
			"resource_id", resourceID.String(),
			"reservation_id", h.Ref.String(),
			"interval", h.Interval.String())
	}
	return true
}

func (uc *bookingUseCaseImpl) persist(ctx context.Context, entity *reservation.Reservation, idempotencyKey *uuid.UUID) error {
	event, err := newReservationEvent(entity, "", entity.CreatedAt())
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reservations().Create(ctx, tx.DB(), entity); err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, tx.DB(), event); err != nil {
			return err
		}
		if idempotencyKey != nil {
			return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), *idempotencyKey, entity.UserID(), entity.ID())
		}
		return nil
	})
}

// forgetKey drops the key of a failed booking so the client can retry with it.
func (uc *bookingUseCaseImpl) forgetKey(ctx context.Context, key, userID uuid.UUID) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, tx.DB(), key, userID)
	})
	if err != nil {
		slog.Warn("failed to delete idempotency key", "key", key.String(), "error", err.Error())
	}
}

func resourceFromSnapshot(snap *shared.ResourceSnapshot) (*resource.Resource, error) {
	kind, err := resource.ParseKind(snap.Kind)
	if err != nil {
		return nil, err
	}
	return resource.NewResource(snap.ID, snap.BusinessID, kind, snap.Capacity, snap.Name)
}

func reservationToView(r *reservation.Reservation, snap *shared.ResourceSnapshot) *queries.ReservationView {
	var note *string
	if !r.Note().IsEmpty() {
		n := r.Note().String()
		note = &n
	}
	return &queries.ReservationView{
		ID:               r.ID(),
		UserID:           r.UserID(),
		BusinessID:       r.BusinessID(),
		ResourceID:       r.ResourceID(),
		ResourceName:     snap.Name,
		ResourceKind:     snap.Kind,
		StartAt:          r.Interval().Start(),
		EndAt:            r.Interval().End(),
		GuestCount:       r.Guests().Int(),
		Status:           r.Status().String(),
		TotalAmountCents: r.Amount().Cents(),
		Currency:         r.Amount().Currency(),
		SpecialRequest:   note,
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

func calculateRequestHash(req BookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
