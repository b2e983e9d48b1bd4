package commands

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepReport struct {
	Completed   int
	Cancelled   int
	Skipped     int
	Failed      int
	ExpiredKeys int64
}

type SweepCommands interface {
	// Sweep completes CONFIRMED reservations whose end has elapsed, cancels
	// PENDING reservations older than the hold TTL and drops expired
	// idempotency keys.
	Sweep(ctx context.Context) (*SweepReport, error)
}

type sweepUseCaseImpl struct {
	uow       shared.UnitOfWork
	lifecycle LifecycleCommands
	clock     clock.Clock
	cfg       config.BookingConfig
}

func NewSweepUseCase(uow shared.UnitOfWork, lifecycle LifecycleCommands, clk clock.Clock, cfg config.BookingConfig) SweepCommands {
	return &sweepUseCaseImpl{
		uow:       uow,
		lifecycle: lifecycle,
		clock:     clk,
		cfg:       cfg,
	}
}

type candidateFetcher func(ctx context.Context, limit int) ([]*reservation.Reservation, error)

type transitionFunc func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*TransitionResult, error)

func (uc *sweepUseCaseImpl) Sweep(ctx context.Context) (*SweepReport, error) {
	now := uc.clock.Now().UTC()
	reads := uc.uow.CommandReads()
	report := &SweepReport{}

	elapsed := func(ctx context.Context, limit int) ([]*reservation.Reservation, error) {
		return reads.ElapsedConfirmed(ctx, now, limit)
	}
	if err := uc.drain(ctx, elapsed, uc.lifecycle.Complete, &report.Completed, report); err != nil {
		return report, err
	}

	cutoff := now.Add(-uc.cfg.PendingHoldTTL)
	stale := func(ctx context.Context, limit int) ([]*reservation.Reservation, error) {
		return reads.StalePending(ctx, cutoff, limit)
	}
	if err := uc.drain(ctx, stale, uc.lifecycle.Cancel, &report.Cancelled, report); err != nil {
		return report, err
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, tx.DB(), now)
		report.ExpiredKeys = n
		return err
	})
	if err != nil {
		return report, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("sweep finished",
		"completed", report.Completed,
		"cancelled", report.Cancelled,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"expired_keys", report.ExpiredKeys)
	return report, nil
}

// drain applies transition to batches of candidates until a batch yields
// nothing new. Ids already attempted are not retried within one sweep.
func (uc *sweepUseCaseImpl) drain(
	ctx context.Context,
	fetch candidateFetcher,
	transition transitionFunc,
	done *int,
	report *SweepReport,
) error {
	batchSize := uc.cfg.SweepBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	seen := make(map[uuid.UUID]struct{})
	actor := shared.SystemActor()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := fetch(ctx, batchSize)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fresh := 0
		for _, res := range batch {
			if _, ok := seen[res.ID()]; ok {
				continue
			}
			seen[res.ID()] = struct{}{}
			fresh++

			_, err := transition(ctx, actor, res.ID())
			switch {
			case err == nil:
				*done++
			case errs.Is(err, errs.ErrInvalidTransition), errs.Is(err, errs.ErrReservationNotFound):
				// moved on concurrently
				report.Skipped++
			default:
				report.Failed++
				slog.Error("sweep transition failed", "reservation_id", res.ID().String(), "error", err.Error())
			}
		}

		if fresh == 0 || len(batch) < batchSize {
			return nil
		}
	}
}
