// Package seed creates the default dashboard accounts and authorization policies.
package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"srdashboard/internal/domain/permission"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/database"
	infraPermission "srdashboard/internal/infrastructure/permission"
	"srdashboard/internal/infrastructure/repository"
	"srdashboard/internal/interfaces/cli/bootstrap"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/logger"
)

var env string

// DefaultAccounts are the operator accounts of a fresh installation.
var DefaultAccounts = []user.Account{
	{Username: "ns6", Role: user.RoleAdmin},
	{Username: "mobitel", Role: user.RoleUser},
	{Username: "huawei", Role: user.RoleUser},
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default users and permission policies",
		Long:  `Insert the default operator accounts and role policies. Existing accounts are left untouched.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap.Init(env, true)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	enforcer, err := infraPermission.NewEnforcer(database.Get(), log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}

	result, err := Seed(ctx, repository.NewUserRepository(database.Get(), log), enforcer, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d user(s), %d policy rule(s)\n", result.UsersCreated, result.PoliciesAdded)
	return nil
}

// PolicyInstaller adds authorization policies that are not yet present.
type PolicyInstaller interface {
	EnsurePolicies(policies []permission.Policy) (int, error)
}

type Result struct {
	UsersCreated  int
	PoliciesAdded int
}

// Seed is idempotent: accounts and policies that already exist are skipped.
func Seed(ctx context.Context, directory user.Directory, policies PolicyInstaller, log logger.Interface) (*Result, error) {
	result := &Result{}

	for _, acc := range DefaultAccounts {
		account := acc
		created, err := directory.Ensure(ctx, &account)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", account.Username, err)
		}
		if created {
			result.UsersCreated++
		} else {
			log.Infow("user already exists", "username", account.Username, "role", account.Role)
		}
	}

	added, err := policies.EnsurePolicies(permission.DefaultPolicies())
	if err != nil {
		return nil, fmt.Errorf("failed to seed policies: %w", err)
	}
	result.PoliciesAdded = added

	log.Infow("seed completed", "users_created", result.UsersCreated, "policies_added", added)
	return result, nil
}
