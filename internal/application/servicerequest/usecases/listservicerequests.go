package usecases

import (
	"context"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

// ListServiceRequestsQuery filters by a case-insensitive service number
// substring and a status, where "" and "all" mean any status.
type ListServiceRequestsQuery struct {
	ServiceNumber string
	Status        string
	Page          int
	PageSize      int
}

type ListServiceRequestsResult struct {
	Items     []*dto.ServiceRequestDTO
	Page      int
	PageSize  int
	PageCount int
	ItemCount int
	Total     int64
}

type ListServiceRequestsUseCase struct {
	repo      servicerequest.Repository
	directory user.Directory
	logger    logger.Interface
}

func NewListServiceRequestsUseCase(
	repo servicerequest.Repository,
	directory user.Directory,
	logger logger.Interface,
) *ListServiceRequestsUseCase {
	return &ListServiceRequestsUseCase{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func (uc *ListServiceRequestsUseCase) Execute(ctx context.Context, query ListServiceRequestsQuery) (*ListServiceRequestsResult, error) {
	status, err := vo.ParseStatusFilter(query.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)

	items, total, err := uc.repo.List(ctx, servicerequest.Filter{
		ServiceNumber: query.ServiceNumber,
		Status:        status,
		Page:          p.Page,
		PageSize:      p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list service requests", "error", err)
		return nil, err
	}

	usernames := map[uint]string{}
	if len(items) > 0 {
		usernames, err = uc.directory.GetUsernames(ctx, dto.ActorIDs(items...))
		if err != nil {
			uc.logger.Errorw("failed to resolve usernames", "error", err)
			return nil, err
		}
	}

	return &ListServiceRequestsResult{
		Items:     dto.ToServiceRequestDTOList(items, usernames),
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: utils.TotalPages(total, p.PageSize),
		ItemCount: len(items),
		Total:     total,
	}, nil
}
