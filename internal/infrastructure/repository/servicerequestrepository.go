package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/infrastructure/persistence/mappers"
	"srdashboard/internal/infrastructure/persistence/models"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/db"
	apperrors "srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

const duplicateServiceNumberMessage = "Service request number already exists"

// likeEscaper escapes LIKE wildcards with '!' so that the same pattern works
// on MySQL (where backslash is also a string escape) and SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// foldASCII lowercases A-Z only. SQLite's LOWER() leaves other letters
// untouched, so the pattern must be folded the same way to match on both
// drivers.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// newestFirst is the listing order. Requests created in the same millisecond
// keep insertion order.
const newestFirst = "created_at DESC, id ASC"

type ServiceRequestRepository struct {
	db     *gorm.DB
	mapper mappers.ServiceRequestMapper
	logger logger.Interface
}

func NewServiceRequestRepository(db *gorm.DB, logger logger.Interface) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		db:     db,
		mapper: mappers.NewServiceRequestMapper(),
		logger: logger,
	}
}

func (r *ServiceRequestRepository) Create(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	model := r.mapper.ToModel(sr)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError(duplicateServiceNumberMessage, sr.ServiceNumber())
		}
		r.logger.Errorw("failed to create service request", "service_number", sr.ServiceNumber(), "error", err)
		return fmt.Errorf("failed to create service request: %w", err)
	}

	sr.SetID(model.ID)
	return nil
}

// Update writes every mutable column, including zero values, so clearing a
// field through a full replacement is persisted.
func (r *ServiceRequestRepository) Update(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	model := r.mapper.ToModel(sr)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(model).
		Select("*").
		Omit("id", "sid", "created_at", "created_by").
		Updates(model)

	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewConflictError(duplicateServiceNumberMessage, sr.ServiceNumber())
		}
		r.logger.Errorw("failed to update service request", "sid", sr.SID(), "error", result.Error)
		return fmt.Errorf("failed to update service request: %w", result.Error)
	}

	// Note: RowsAffected may be 0 on MySQL when updated values are identical to existing values.

	return nil
}

func (r *ServiceRequestRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.ServiceRequestModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete service request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Service request not found")
	}

	return nil
}

func (r *ServiceRequestRepository) GetBySID(ctx context.Context, sid string) (*servicerequest.ServiceRequest, error) {
	return r.getOne(ctx, "sid = ?", sid)
}

// GetByServiceNumber matches exactly; service numbers are case-sensitive.
func (r *ServiceRequestRepository) GetByServiceNumber(ctx context.Context, serviceNumber string) (*servicerequest.ServiceRequest, error) {
	return r.getOne(ctx, "service_number = ?", serviceNumber)
}

// GetByRCAFilePath returns the request that owns the attachment at path.
func (r *ServiceRequestRepository) GetByRCAFilePath(ctx context.Context, path string) (*servicerequest.ServiceRequest, error) {
	if path == "" {
		return nil, nil
	}
	return r.getOne(ctx, "rca_file_path = ?", path)
}

func (r *ServiceRequestRepository) getOne(ctx context.Context, query string, arg any) (*servicerequest.ServiceRequest, error) {
	var model models.ServiceRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *ServiceRequestRepository) List(ctx context.Context, filter servicerequest.Filter) ([]*servicerequest.ServiceRequest, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.ServiceRequestModel{})

	if filter.ServiceNumber != "" {
		pattern := "%" + likeEscaper.Replace(foldASCII(filter.ServiceNumber)) + "%"
		query = query.Where("LOWER(service_number) LIKE ? ESCAPE '!'", pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count service requests: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	offset := (page - 1) * pageSize

	var rows []models.ServiceRequestModel
	if int64(offset) < total {
		if err := query.Order(newestFirst).Limit(pageSize).Offset(offset).Find(&rows).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to list service requests: %w", err)
		}
	}

	requests, err := r.mapper.ToDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListAll returns every request newest first.
func (r *ServiceRequestRepository) ListAll(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
	var rows []models.ServiceRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	return r.mapper.ToDomainList(rows)
}

func (r *ServiceRequestRepository) Count(ctx context.Context, predicate servicerequest.CountPredicate) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.ServiceRequestModel{})

	if predicate.Status != nil {
		query = query.Where("status = ?", predicate.Status.String())
	}
	if predicate.CreatedSince != nil {
		query = query.Where("created_at >= ?", predicate.CreatedSince.UnixMilli())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count service requests: %w", err)
	}
	return count, nil
}
