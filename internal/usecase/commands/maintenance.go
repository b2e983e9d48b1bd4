package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"
)

type MaintenanceReport struct {
	Sweep     *SweepReport
	Reconcile ReconcileReport
}

// IndexMaintainer runs inside the serving process. Its sweep shares the
// server's index, so holds of reservations it finishes are released at once,
// and the reconcile step catches transitions made by other processes.
type IndexMaintainer struct {
	uow     shared.UnitOfWork
	index   HoldLedger
	sweeper SweepCommands
	cfg     config.BookingConfig
}

func NewIndexMaintainer(uow shared.UnitOfWork, index HoldLedger, sweeper SweepCommands, cfg config.BookingConfig) *IndexMaintainer {
	return &IndexMaintainer{
		uow:     uow,
		index:   index,
		sweeper: sweeper,
		cfg:     cfg,
	}
}

// RunOnce sweeps, then reconciles. A sweep failure does not skip the
// reconcile; the first error is returned.
func (m *IndexMaintainer) RunOnce(ctx context.Context) (*MaintenanceReport, error) {
	report := &MaintenanceReport{}

	sweep, sweepErr := m.sweeper.Sweep(ctx)
	report.Sweep = sweep
	if sweepErr != nil {
		slog.Warn("in-process sweep failed", "error", sweepErr.Error())
	}

	reconciled, err := ReconcileIndex(ctx, m.uow, m.index)
	report.Reconcile = reconciled
	if sweepErr != nil {
		return report, sweepErr
	}
	return report, err
}

// Run repeats RunOnce every SweepInterval until ctx is done.
func (m *IndexMaintainer) Run(ctx context.Context) error {
	interval := m.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("starting index maintenance", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping index maintenance")
			return nil
		case <-ticker.C:
			if _, err := m.RunOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Error("index maintenance failed", "error", err.Error())
			}
		}
	}
}
