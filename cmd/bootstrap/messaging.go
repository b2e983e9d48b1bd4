package bootstrap

import (
	"context"

	"booking-core/internal/infra/messaging"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.KafkaConfig) commands.Publisher {
	p := messaging.NewKafkaPublisher(cfg)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}
