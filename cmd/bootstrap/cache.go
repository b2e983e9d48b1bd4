package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/cache"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewReservationCache,
		func(c queries.ReservationCache) commands.CacheInvalidator { return c },
	),
)

// NewReservationCache falls back to a cache that always misses when Redis is
// not configured or unreachable at startup.
func NewReservationCache(lc fx.Lifecycle, cfg config.RedisConfig) queries.ReservationCache {
	if !cfg.Enabled() {
		slog.Info("reservation cache disabled")
		return cache.NoopCache{}
	}

	client := cache.NewRedisClient(cfg)
	rc := cache.NewReservationCache(client, cfg)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rc.Ping(ctx); err != nil {
				slog.Warn("redis unreachable, reads will go to the database", "addr", cfg.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return rc
}
