package usecases

import (
	"context"

	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/db"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

type DeleteServiceRequestCommand struct {
	SID   string
	Actor user.Actor
}

type DeleteServiceRequestResult struct {
	SID string
}

type DeleteServiceRequestUseCase struct {
	repo        servicerequest.Repository
	attachments AttachmentManager
	txManager   db.Transactor
	logger      logger.Interface
}

func NewDeleteServiceRequestUseCase(
	repo servicerequest.Repository,
	attachments AttachmentManager,
	txManager db.Transactor,
	logger logger.Interface,
) *DeleteServiceRequestUseCase {
	return &DeleteServiceRequestUseCase{
		repo:        repo,
		attachments: attachments,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute hard-deletes the request and then its attachment. The service
// number becomes available again immediately.
func (uc *DeleteServiceRequestUseCase) Execute(ctx context.Context, cmd DeleteServiceRequestCommand) (*DeleteServiceRequestResult, error) {
	uc.logger.Infow("executing delete service request use case", "sid", cmd.SID, "actor", cmd.Actor.Username)

	var rcaFilePath string
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sr, err := uc.repo.GetBySID(txCtx, cmd.SID)
		if err != nil {
			return err
		}
		if sr == nil {
			return errors.NewNotFoundError("Service request not found")
		}
		rcaFilePath = sr.RCAFilePath()
		return uc.repo.Delete(txCtx, sr.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete service request", "sid", cmd.SID, "error", err)
		return nil, err
	}

	uc.attachments.Remove(ctx, rcaFilePath)

	uc.logger.Infow("service request deleted successfully", "sid", cmd.SID)
	return &DeleteServiceRequestResult{SID: cmd.SID}, nil
}
