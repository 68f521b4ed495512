// Package bootstrap loads configuration and opens shared resources for CLI commands.
package bootstrap

import (
	"fmt"

	"srdashboard/internal/infrastructure/config"
	"srdashboard/internal/infrastructure/database"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/logger"
)

// Init loads configuration for env, then initializes the logger and the
// business timezone. The database is opened only when withDB is set; callers
// then own database.Close.
func Init(env string, withDB bool) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if withDB {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return cfg, logger.NewLogger(), nil
}

// GinMode maps an environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}
