package bootstrap

import (
	"booking-core/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module is everything the maintenance commands need.
var Module = fx.Options(
	ConfigModule,
	DBModule,
	LoggerModule,
	CacheModule,
	MessagingModule,
	components.PersistenceModule,
	components.UseCaseModule,
)

// ServerModule adds the HTTP layer plus index warm-up and maintenance.
var ServerModule = fx.Options(
	Module,
	JWTModule,
	components.HandlerModule,
	components.IndexWarmUpModule,
	components.IndexMaintenanceModule,
)
