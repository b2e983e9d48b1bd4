package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"booking-core/cmd/bootstrap"
	"booking-core/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newRelayCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Publish reservation events from the outbox to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var relay commands.RelayCommands
			app := fx.New(
				bootstrap.Module,
				fx.Populate(&relay),
				fx.NopLogger,
			)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			if once {
				n, err := relay.RelayOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published=%d\n", n)
				return nil
			}
			return relay.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "publish a single batch and exit")
	return cmd
}
