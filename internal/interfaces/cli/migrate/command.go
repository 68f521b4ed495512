package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"srdashboard/internal/infrastructure/database"
	"srdashboard/internal/infrastructure/migration"
	"srdashboard/internal/interfaces/cli/bootstrap"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/logger"
)

const defaultScriptsDir = "./internal/infrastructure/migration/scripts/goose"

var (
	env        string
	strategy   string
	name       string
	scriptsDir string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", migration.StrategyGoose, "Migration strategy (goose, golang-migrate, auto)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new goose SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsDir, "dir", defaultScriptsDir, "Directory to write the migration into")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initManager() (*migration.Manager, logger.Interface, error) {
	cfg, log, err := bootstrap.Init(env, true)
	if err != nil {
		return nil, nil, err
	}

	manager, err := migration.NewManager(cfg.Database.Driver, strategy, log)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return manager, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, log, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, log, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := manager.Down(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, log, err := initManager()
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := manager.Version(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Strategy:        %s\n", manager.GetStrategy().GetName())
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if goose, ok := manager.GetStrategy().(*migration.GooseStrategy); ok {
		if err := goose.Status(database.Get()); err != nil {
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := migration.CreateScript(scriptsDir, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, scriptsDir)
	return nil
}
