// cmd/batchctl/token.go
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/utils"
)

func newTokenCmd() *cobra.Command {
	var (
		userID   string
		username string
		role     string
		ttl      int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		Long: `Issue an HS256 bearer token signed with JWT_SECRET. Production tokens
come from the identity service; this exists for local testing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Environment == "production" {
				return fmt.Errorf("refusing to issue tokens in production")
			}

			switch models.Role(role) {
			case models.RoleFieldAgent, models.RoleInspector, models.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			if ttl <= 0 {
				ttl = cfg.JWT.AccessTokenTTL
			}

			utils.SetJWTSecret(cfg.JWT.SecretKey)
			utils.SetJWTIssuer(cfg.JWT.Issuer)
			token, err := utils.GenerateJWT(userID, username, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "subject (default random UUID)")
	cmd.Flags().StringVar(&username, "username", "dev", "username claim")
	cmd.Flags().StringVar(&role, "role", string(models.RoleFieldAgent), "field_agent, inspector or admin")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "lifetime in hours (default JWT_ACCESS_TTL)")
	return cmd
}
