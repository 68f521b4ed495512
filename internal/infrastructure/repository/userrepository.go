package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/persistence/models"
	"srdashboard/internal/shared/db"
	"srdashboard/internal/shared/logger"
)

// UserRepository implements user.Directory.
type UserRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) GetUsernames(ctx context.Context, ids []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Select("id", "username").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get usernames: %w", err)
	}

	for _, row := range rows {
		result[row.ID] = row.Username
	}
	return result, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.Account, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	role, err := user.NewRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", model.Username, err)
	}

	return &user.Account{ID: model.ID, Username: model.Username, Role: role}, nil
}

func (r *UserRepository) Ensure(ctx context.Context, account *user.Account) (bool, error) {
	existing, err := r.GetByUsername(ctx, account.Username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		account.ID = existing.ID
		account.Role = existing.Role
		return false, nil
	}

	model := &models.UserModel{Username: account.Username, Role: account.Role.String()}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	account.ID = model.ID
	r.logger.Infow("user created", "username", account.Username, "role", account.Role)
	return true, nil
}
