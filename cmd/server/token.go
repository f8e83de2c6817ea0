package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// newTokenCommand mints a bearer token for local development. Production
// tokens come from the identity provider that shares the signing secret.
// The command does not connect to the database.
func newTokenCommand(opts *cliOptions) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(userFlag)
			if err != nil || userID == uuid.Nil {
				return fmt.Errorf("--user must be a non-nil UUID, got %q", userFlag)
			}

			cfg, err := config.LoadFrom(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userFlag, "user", "", "user ID (UUID) to place in the token subject")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
