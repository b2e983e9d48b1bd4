package main

import (
	"fmt"
	"time"

	"booking-core/internal/domain/user"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newTokenCmd signs a bearer token with the service secret for local testing
// and operator scripts.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user id and role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			r, err := user.NewRole(role)
			if err != nil {
				return fmt.Errorf("invalid --role %q: %w", role, err)
			}

			token, err := jwt.NewService(cfg.JWT.Secret).GenerateToken(id, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (UUID)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleViewer), "viewer, operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
