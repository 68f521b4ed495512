// Package token issues access tokens for existing accounts.
package token

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/auth"
	"srdashboard/internal/infrastructure/database"
	"srdashboard/internal/infrastructure/repository"
	"srdashboard/internal/interfaces/cli/bootstrap"
	"srdashboard/internal/shared/constants"
)

var (
	env      string
	username string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token",
		Long:  `Issue a signed access token for an existing account. The token is printed to stdout.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account to issue the token for (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(env, true)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jwtCfg := cfg.Auth.JWT
	issuer := auth.NewJWTService(jwtCfg.Secret, jwtCfg.AccessExpMinutes, jwtCfg.Issuer)

	token, err := Issue(ctx, repository.NewUserRepository(database.Get(), log), issuer, username)
	if err != nil {
		return err
	}

	log.Infow("access token issued", "username", username, "expires_in_minutes", issuer.AccessExpMinutes())
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// Generator signs tokens for an actor.
type Generator interface {
	Generate(actor user.Actor) (string, error)
}

// Issue signs a token for the account named username.
func Issue(ctx context.Context, directory user.Directory, generator Generator, username string) (string, error) {
	account, err := directory.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("user %q not found", username)
	}

	return generator.Generate(user.Actor{ID: account.ID, Username: account.Username, Role: account.Role})
}
