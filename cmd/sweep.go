package main

import (
	"context"
	"fmt"
	"time"

	"booking-core/cmd/bootstrap"
	"booking-core/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newSweepCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Complete elapsed reservations, cancel stale pending ones and purge expired idempotency keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sweeper commands.SweepCommands
			app := fx.New(
				bootstrap.Module,
				fx.Populate(&sweeper),
				fx.NopLogger,
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			report, err := sweeper.Sweep(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "completed=%d cancelled=%d skipped=%d failed=%d expired_keys=%d\n",
				report.Completed, report.Cancelled, report.Skipped, report.Failed, report.ExpiredKeys)
			if report.Failed > 0 {
				return fmt.Errorf("%d reservations could not be swept", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort the sweep after this long")
	return cmd
}
