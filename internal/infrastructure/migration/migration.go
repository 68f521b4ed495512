package migration

import (
	"fmt"

	"gorm.io/gorm"

	"srdashboard/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAutoMigrate   = "auto"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy for the database driver. SQLite always uses
// gorm AutoMigrate since the versioned scripts are MySQL dialect.
func NewManager(driver, strategyName string, log logger.Interface) (*Manager, error) {
	if driver == "sqlite" {
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy(log), log), nil
	}

	var strategy Strategy
	switch strategyName {
	case "", StrategyGoose:
		strategy = NewGooseStrategy("mysql", log)
	case StrategyGolangMigrate:
		strategy = NewGolangMigrateStrategy(log)
	case StrategyAutoMigrate:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		return nil, fmt.Errorf("unknown migration strategy: %q", strategyName)
	}

	return NewManagerWithStrategy(strategy, log), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Down rolls back steps versions.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	return m.strategy.Down(db, steps)
}

// Version returns the applied schema version.
func (m *Manager) Version(db *gorm.DB) (int64, error) {
	return m.strategy.Version(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
