package components

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

// one index per process; every booking path must share it
var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	reservation.NewFactory,
	availability.NewIndex,
	func(x *availability.Index) commands.AvailabilityIndex { return x },
	func(x *availability.Index) queries.FreeChecker { return x },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewLifecycleUseCase,
		commands.NewSweepUseCase,
		commands.NewRelayUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// IndexWarmUpModule fills the availability index from storage before the
// server starts taking bookings.
var IndexWarmUpModule = fx.Module("usecase/warmup",
	fx.Invoke(func(lc fx.Lifecycle, uow shared.UnitOfWork, index commands.AvailabilityIndex) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_, err := commands.WarmUpIndex(ctx, uow, index)
				return err
			},
		})
	}),
)

// IndexMaintenanceModule runs the sweep and index reconcile inside the
// serving process. It must come after IndexWarmUpModule.
var IndexMaintenanceModule = fx.Module("usecase/maintenance",
	fx.Provide(commands.NewIndexMaintainer),
	fx.Invoke(func(lc fx.Lifecycle, m *commands.IndexMaintainer, cfg config.BookingConfig) {
		if cfg.SweepInterval <= 0 {
			slog.Info("in-process sweep disabled")
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					defer close(done)
					_ = m.Run(ctx)
				}()
				return nil
			},
			OnStop: func(stopCtx context.Context) error {
				cancel()
				select {
				case <-done:
					return nil
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			},
		})
	}),
)
