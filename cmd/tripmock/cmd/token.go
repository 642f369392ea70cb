package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/internal/api/handlers"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

func tokenCommand() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token signed with auth.token",
		Long:  "Prints an HS256 JWT accepted by a server running with auth.require_token, for use as the jwt cookie or a bearer token.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.Token == "" {
				return errors.New("auth.token is not set in the config")
			}
			if _, err := domain.ParseRole(role); err != nil {
				return err
			}

			token, err := handlers.NewAuthorizer(cfg.Auth.Token).Mint(subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "usr-001", "token subject (user ID)")
	cmd.Flags().StringVar(&role, "role", "tourist", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func init() {
	rootCmd.AddCommand(tokenCommand())
}
