package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"srdashboard/internal/infrastructure/config"
	"srdashboard/internal/infrastructure/database"
	"srdashboard/internal/infrastructure/migration"
	httpRouter "srdashboard/internal/interfaces/http"
	"srdashboard/internal/interfaces/cli/bootstrap"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
	migrationStrategy  string
)

func NewCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the service request dashboard API server with the specified configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), version)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")
	cmd.Flags().StringVar(&migrationStrategy, "migration-strategy", migration.StrategyGoose, "Migration strategy for --auto-migrate (goose, golang-migrate, auto)")

	return cmd
}

func run(ctx context.Context, version string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := bootstrap.Init(env, true)
	if err != nil {
		return err
	}
	defer database.Close()

	cfg.Server.Mode = bootstrap.GinMode(env)

	log.Infow("starting server",
		"environment", env,
		"version", version,
		"auto_migrate", autoMigrate,
		"database", cfg.Database.Driver,
		"storage", cfg.Storage.Driver)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := utils.RegisterBindingValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	if err := handleMigrations(cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	container, err := httpRouter.NewContainer(ctx, database.Get(), cfg, version, log)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer container.Shutdown()

	router := httpRouter.NewRouter(container)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           router.GetEngine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server listening",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(cfg *config.Config, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	manager, err := migration.NewManager(cfg.Database.Driver, migrationStrategy, log)
	if err != nil {
		return err
	}

	if autoMigrate || cfg.Database.Driver == "sqlite" {
		if env == constants.EnvProduction && cfg.Database.Driver != "sqlite" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		return manager.Migrate(database.Get())
	}

	version, err := manager.Version(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version, "strategy", manager.GetStrategy().GetName())
	return nil
}
