package usecases

import (
	"context"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/shared/logger"
)

type UploadRCAFileCommand struct {
	File FileUpload
}

// UploadRCAFileUseCase stores a file without attaching it to a request. The
// returned path can be referenced later through RequestFields.RCAFilePath.
type UploadRCAFileUseCase struct {
	attachments AttachmentManager
	logger      logger.Interface
}

func NewUploadRCAFileUseCase(attachments AttachmentManager, logger logger.Interface) *UploadRCAFileUseCase {
	return &UploadRCAFileUseCase{
		attachments: attachments,
		logger:      logger,
	}
}

func (uc *UploadRCAFileUseCase) Execute(ctx context.Context, cmd UploadRCAFileCommand) (*dto.UploadDTO, error) {
	path, err := uc.attachments.Attach(ctx, cmd.File.Name, cmd.File.Data)
	if err != nil {
		uc.logger.Warnw("rca upload rejected", "filename", cmd.File.Name, "error", err)
		return nil, err
	}

	return &dto.UploadDTO{
		FilePath:     path,
		OriginalName: cmd.File.Name,
	}, nil
}
