package commands

import (
	"context"
	"log/slog"
	"slices"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// HoldLedger is the index together with the enumeration reconciliation needs.
type HoldLedger interface {
	AvailabilityIndex
	Resources() []uuid.UUID
	Holds(resourceID uuid.UUID) []availability.Hold
}

// WarmUpIndex loads every PENDING or CONFIRMED reservation into the index.
// It must run before the server accepts bookings.
func WarmUpIndex(ctx context.Context, uow shared.UnitOfWork, index AvailabilityIndex) (int, error) {
	held, err := uow.CommandReads().HeldIntervals(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "failed to load held intervals")
	}

	loaded := 0
	for _, h := range held {
		if adoptHold(index, h, "held reservation overlaps another") {
			loaded++
		}
	}

	slog.Info("availability index warmed up", "holds", loaded)
	return loaded, nil
}

type ReconcileReport struct {
	Released int
	Adopted  int
}

// ReconcileIndex brings the index back in line with storage after other
// processes changed it. Holds whose reservation is stored as CANCELLED or
// COMPLETED are released, and held reservations the index has never seen are
// adopted. A hold with no stored row belongs to a booking still in flight and
// is kept.
func ReconcileIndex(ctx context.Context, uow shared.UnitOfWork, index HoldLedger) (ReconcileReport, error) {
	var report ReconcileReport
	reads := uow.CommandReads()

	held, err := reads.HeldIntervals(ctx)
	if err != nil {
		return report, errs.Wrap(err, "failed to load held intervals")
	}
	live := make(map[uuid.UUID]struct{}, len(held))
	for _, h := range held {
		live[h.ReservationID] = struct{}{}
	}

	for _, resourceID := range index.Resources() {
		for _, h := range index.Holds(resourceID) {
			if _, ok := live[h.Ref]; ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return report, err
			}
			stored, err := reads.ReservationByID(ctx, h.Ref)
			if infra.IsKind(err, infra.KindNotFound) {
				continue
			}
			if err != nil {
				return report, errs.Wrapf(err, "failed to load reservation %s", h.Ref)
			}
			if !stored.Status().IsTerminal() {
				// became held after the snapshot above
				continue
			}
			index.ReleaseToken(availability.Token{ResourceID: resourceID, Interval: h.Interval, Ref: h.Ref})
			report.Released++
		}
	}

	// a row finished since the snapshot may be adopted here; the next pass releases it
	for _, h := range held {
		owned := func(x availability.Hold) bool { return x.Ref == h.ReservationID }
		if slices.ContainsFunc(index.Holds(h.ResourceID), owned) {
			continue
		}
		if adoptHold(index, h, "stored hold overlaps an index hold") {
			report.Adopted++
		}
	}

	if report.Released > 0 || report.Adopted > 0 {
		slog.Info("availability index reconciled", "released", report.Released, "adopted", report.Adopted)
	}
	return report, nil
}

func adoptHold(index AvailabilityIndex, h shared.HeldInterval, conflictMsg string) bool {
	iv, err := reservation.NewInterval(h.Start, h.End)
	if err != nil {
		slog.Warn("skipping held reservation with invalid interval", "reservation_id", h.ReservationID.String(), "error", err.Error())
		return false
	}
	if _, err := index.Reserve(h.ResourceID, iv, h.ReservationID); err != nil {
		// storage forbids overlapping holds, so this indicates drift worth a look
		slog.Error(conflictMsg, "reservation_id", h.ReservationID.String(), "error", err.Error())
		return false
	}
	return true
}
