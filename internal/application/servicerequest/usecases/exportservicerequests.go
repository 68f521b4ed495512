package usecases

import (
	"context"
	"time"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/application/servicerequest/export"
	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

type ExportServiceRequestsUseCase struct {
	repo      servicerequest.Repository
	directory user.Directory
	encoder   *export.CSVEncoder
	logger    logger.Interface
	now       func() time.Time
}

func NewExportServiceRequestsUseCase(
	repo servicerequest.Repository,
	directory user.Directory,
	encoder *export.CSVEncoder,
	logger logger.Interface,
) *ExportServiceRequestsUseCase {
	return &ExportServiceRequestsUseCase{
		repo:      repo,
		directory: directory,
		encoder:   encoder,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

// Execute exports every request, unfiltered, newest first.
func (uc *ExportServiceRequestsUseCase) Execute(ctx context.Context) (*export.File, error) {
	items, err := uc.repo.ListAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load service requests for export", "error", err)
		return nil, err
	}

	usernames := map[uint]string{}
	if len(items) > 0 {
		usernames, err = uc.directory.GetUsernames(ctx, dto.ActorIDs(items...))
		if err != nil {
			uc.logger.Errorw("failed to resolve usernames for export", "error", err)
			return nil, err
		}
	}

	file, err := uc.encoder.Render(items, usernames, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to encode export", "error", err)
		return nil, errors.NewInternalError("failed to export service requests")
	}

	uc.logger.Infow("service requests exported", "rows", len(items), "file", file.FileName)
	return file, nil
}
