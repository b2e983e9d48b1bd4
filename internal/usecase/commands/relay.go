package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"
)

type RelayCommands interface {
	// RelayOnce publishes one batch of unpublished events and returns how
	// many were published.
	RelayOnce(ctx context.Context) (int, error)
	// Run relays until ctx is cancelled.
	Run(ctx context.Context) error
}

type relayUseCaseImpl struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	cfg       config.OutboxConfig
}

func NewRelayUseCase(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, cfg config.OutboxConfig) RelayCommands {
	return &relayUseCaseImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

// RelayOnce delivers at least once: rows are marked only after the broker
// acknowledged them, and stay locked by the transaction meanwhile.
func (uc *relayUseCaseImpl) RelayOnce(ctx context.Context) (int, error) {
	var published int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		published = 0
		events, err := tx.Events().ListUnpublished(ctx, tx.DB(), uc.batchSize())
		if err != nil || len(events) == 0 {
			return err
		}

		if err := uc.publisher.Publish(ctx, events); err != nil {
			return err
		}

		ids := make([]int64, len(events))
		for i, ev := range events {
			ids[i] = ev.ID
		}
		if err := tx.Events().MarkPublished(ctx, tx.DB(), ids, uc.clock.Now().UTC()); err != nil {
			return err
		}
		published = len(events)
		return nil
	})
	return published, err
}

func (uc *relayUseCaseImpl) Run(ctx context.Context) error {
	interval := uc.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("starting outbox relay", "poll_interval", interval.String(), "batch_size", uc.batchSize())

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping outbox relay")
			return nil
		case <-ticker.C:
			uc.drain(ctx)
		}
	}
}

// drain keeps relaying while batches come back full.
func (uc *relayUseCaseImpl) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := uc.RelayOnce(ctx)
		if err != nil {
			slog.Error("failed to relay outbox batch", "error", err.Error())
			return
		}
		if n > 0 {
			slog.Info("relayed reservation events", "count", n)
		}
		if n < uc.batchSize() {
			return
		}
	}
}

func (uc *relayUseCaseImpl) batchSize() int {
	if uc.cfg.BatchSize <= 0 {
		return 100
	}
	return uc.cfg.BatchSize
}
