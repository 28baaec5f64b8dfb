package cli

import (
	"fmt"
	"time"

	"feedback-quiz-service/internal/config"
	transport "feedback-quiz-service/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewTokenCmd mints an owner token for local development.
func NewTokenCmd(configPath *string) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Mint a signed owner token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			token, err := transport.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Sign(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
