package main

import (
	"fmt"
	"os"

	"booking-core/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var (
		dir    string
		binary string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations with the atlas CLI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			// re-run `atlas migrate hash` after editing a migration file
			workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
			if err != nil {
				return fmt.Errorf("failed to load migrations from %s: %w", dir, err)
			}
			defer workdir.Close()

			client, err := atlasexec.NewClient(workdir.Path(), binary)
			if err != nil {
				return fmt.Errorf("failed to initialize atlas client: %w", err)
			}

			res, err := client.MigrateApply(cmd.Context(), &atlasexec.MigrateApplyParams{
				URL:    cfg.DB.BuildDSN(),
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied=%d current=%s target=%s\n", len(res.Applied), res.Current, res.Target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory holding the migration files and atlas.sum")
	cmd.Flags().StringVar(&binary, "atlas", "atlas", "path to the atlas binary")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the pending statements without executing them")
	return cmd
}
