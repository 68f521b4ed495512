package migration

import (
	"srdashboard/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models managed by GormAutoMigrateStrategy, parents first.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.ServiceRequestModel{},
	}
}
