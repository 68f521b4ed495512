package usecases

import (
	"context"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

type GetServiceRequestQuery struct {
	SID string
}

type GetServiceRequestUseCase struct {
	repo      servicerequest.Repository
	directory user.Directory
	logger    logger.Interface
}

func NewGetServiceRequestUseCase(
	repo servicerequest.Repository,
	directory user.Directory,
	logger logger.Interface,
) *GetServiceRequestUseCase {
	return &GetServiceRequestUseCase{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func (uc *GetServiceRequestUseCase) Execute(ctx context.Context, query GetServiceRequestQuery) (*dto.ServiceRequestDTO, error) {
	sr, err := uc.repo.GetBySID(ctx, query.SID)
	if err != nil {
		uc.logger.Errorw("failed to get service request", "sid", query.SID, "error", err)
		return nil, err
	}
	if sr == nil {
		return nil, errors.NewNotFoundError("Service request not found")
	}

	usernames, err := uc.directory.GetUsernames(ctx, dto.ActorIDs(sr))
	if err != nil {
		uc.logger.Errorw("failed to resolve usernames", "sid", query.SID, "error", err)
		return nil, err
	}

	return dto.ToServiceRequestDTO(sr, usernames), nil
}
