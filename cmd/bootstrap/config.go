package bootstrap

import (
	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	SectionsModule,
)

// SectionsModule exposes config sections to constructors that take only their own.
var SectionsModule = fx.Provide(
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	func(cfg config.Config) config.OutboxConfig { return cfg.Outbox },
	func(cfg config.Config) config.RedisConfig { return cfg.Redis },
	func(cfg config.Config) config.KafkaConfig { return cfg.Kafka },
)
