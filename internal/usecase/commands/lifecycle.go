package commands

//go:generate mockgen -source=lifecycle.go -destination=../../../tests/mock/commands/lifecycle_mock.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type TransitionResult struct {
	ReservationID  uuid.UUID
	Status         reservation.Status
	PreviousStatus reservation.Status
	UpdatedAt      time.Time
	// Changed is false when the reservation already was in the requested state.
	Changed bool
}

type LifecycleCommands interface {
	Confirm(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error)
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error)
	Complete(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error)
}

type lifecycleUseCaseImpl struct {
	uow   shared.UnitOfWork
	index AvailabilityIndex
	cache CacheInvalidator
	clock clock.Clock
}

func NewLifecycleUseCase(uow shared.UnitOfWork, index AvailabilityIndex, cache CacheInvalidator, clk clock.Clock) LifecycleCommands {
	return &lifecycleUseCaseImpl{
		uow:   uow,
		index: index,
		cache: cache,
		clock: clk,
	}
}

func (uc *lifecycleUseCaseImpl) Confirm(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error) {
	return uc.transition(ctx, actor, id, reservation.ActionConfirm)
}

// Cancel releases the held interval only after the status change is stored.
func (uc *lifecycleUseCaseImpl) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error) {
	return uc.transition(ctx, actor, id, reservation.ActionCancel)
}

func (uc *lifecycleUseCaseImpl) Complete(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error) {
	return uc.transition(ctx, actor, id, reservation.ActionComplete)
}

func (uc *lifecycleUseCaseImpl) transition(
	ctx context.Context,
	actor shared.Actor,
	id uuid.UUID,
	action reservation.Action,
) (*TransitionResult, error) {
	current, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, current, action); err != nil {
		return nil, err
	}
	if action == reservation.ActionConfirm && current.Status() == reservation.StatusConfirmed {
		return unchanged(current), nil
	}

	now := uc.clock.Now().UTC()
	next, err := current.NextStatus(action, now)
	if err != nil {
		return nil, err
	}

	updated, err := uc.apply(ctx, current, next, now)
	if infra.IsKind(err, infra.KindConflict) {
		// Another writer moved the status first; decide again from what it stored.
		current, err = uc.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status() == action.Target() {
			uc.releaseIfFinished(current)
			return unchanged(current), nil
		}
		if next, err = current.NextStatus(action, now); err != nil {
			return nil, err
		}
		updated, err = uc.apply(ctx, current, next, now)
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrInvalidTransition)
		}
	}
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	uc.releaseIfFinished(updated)
	uc.invalidate(ctx, id)

	slog.Info("reservation status changed",
		"reservation_id", id.String(),
		"from", current.Status().String(),
		"to", updated.Status().String())

	return &TransitionResult{
		ReservationID:  updated.ID(),
		Status:         updated.Status(),
		PreviousStatus: current.Status(),
		UpdatedAt:      updated.UpdatedAt(),
		Changed:        true,
	}, nil
}

func (uc *lifecycleUseCaseImpl) load(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := uc.uow.CommandReads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return res, nil
}

func (uc *lifecycleUseCaseImpl) apply(
	ctx context.Context,
	current *reservation.Reservation,
	next reservation.Status,
	now time.Time,
) (*reservation.Reservation, error) {
	var updated *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().UpdateStatus(ctx, tx.DB(), current.ID(), current.Status(), next, now)
		if err != nil {
			return err
		}
		event, err := newReservationEvent(res, current.Status(), now)
		if err != nil {
			return err
		}
		if err := tx.Events().Append(ctx, tx.DB(), event); err != nil {
			return err
		}
		updated = res
		return nil
	})
	return updated, err
}

// releaseIfFinished drops the hold of a reservation that no longer blocks
// its interval. ReleaseToken ignores holds owned by other reservations.
func (uc *lifecycleUseCaseImpl) releaseIfFinished(res *reservation.Reservation) {
	if !res.Status().IsTerminal() {
		return
	}
	uc.index.ReleaseToken(availability.Token{
		ResourceID: res.ResourceID(),
		Interval:   res.Interval(),
		Ref:        res.ID(),
	})
}

func (uc *lifecycleUseCaseImpl) invalidate(ctx context.Context, id uuid.UUID) {
	if err := uc.cache.Invalidate(context.WithoutCancel(ctx), id); err != nil {
		slog.Warn("failed to invalidate reservation cache", "reservation_id", id.String(), "error", err.Error())
	}
}

func authorize(actor shared.Actor, res *reservation.Reservation, action reservation.Action) error {
	switch action {
	case reservation.ActionCancel:
		if actor.CanAccess(res.UserID()) {
			return nil
		}
	default:
		if actor.Role.IsStaff() {
			return nil
		}
	}
	return errs.ErrForbidden
}

func unchanged(res *reservation.Reservation) *TransitionResult {
	return &TransitionResult{
		ReservationID:  res.ID(),
		Status:         res.Status(),
		PreviousStatus: res.Status(),
		UpdatedAt:      res.UpdatedAt(),
		Changed:        false,
	}
}
