package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/goliatone/go-coworking/internal/auth"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		sub string
		rol string
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}

			id, err := uuid.Parse(sub)
			if err != nil {
				return fmt.Errorf("--sub must be a user id: %w", err)
			}
			role := models.Role(rol)
			if !slices.Contains(models.Roles, role) {
				return fmt.Errorf("--rol must be one of %v", models.Roles)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl).Issue(id, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "user id the token is issued for")
	cmd.Flags().StringVar(&rol, "rol", string(models.RoleUser), "role claim (usuario, propietario, admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
