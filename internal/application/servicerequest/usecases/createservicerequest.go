package usecases

import (
	"context"
	"time"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/id"
	"srdashboard/internal/shared/logger"
)

type CreateServiceRequestCommand struct {
	Fields RequestFields
	File   *FileUpload
	Actor  user.Actor
}

type CreateServiceRequestResult struct {
	Request *dto.ServiceRequestDTO
	Events  []events.DomainEvent
}

type CreateServiceRequestUseCase struct {
	repo        servicerequest.Repository
	attachments AttachmentManager
	publisher   events.EventPublisher
	logger      logger.Interface
	now         func() time.Time
}

func NewCreateServiceRequestUseCase(
	repo servicerequest.Repository,
	attachments AttachmentManager,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CreateServiceRequestUseCase {
	return &CreateServiceRequestUseCase{
		repo:        repo,
		attachments: attachments,
		publisher:   publisher,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *CreateServiceRequestUseCase) Execute(ctx context.Context, cmd CreateServiceRequestCommand) (*CreateServiceRequestResult, error) {
	uc.logger.Infow("executing create service request use case",
		"service_number", cmd.Fields.ServiceNumber,
		"actor", cmd.Actor.Username,
	)

	if cmd.Actor.IsZero() {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	now := uc.now()
	draft, err := cmd.Fields.draft(now)
	if err != nil {
		uc.logger.Warnw("invalid create service request command", "error", err)
		return nil, err
	}

	referenced, err := cmd.Fields.referencedPath()
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByServiceNumber(ctx, draft.ServiceNumber)
	if err != nil {
		uc.logger.Errorw("failed to check service number", "service_number", draft.ServiceNumber, "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("Service request number already exists")
	}

	rcaFilePath := ""
	if referenced != nil && cmd.File == nil {
		rcaFilePath = *referenced
		if err := claimReferencedPath(ctx, uc.repo, uc.attachments, rcaFilePath, ""); err != nil {
			uc.logger.Warnw("rejected RCA file reference", "path", rcaFilePath, "error", err)
			return nil, err
		}
	}

	stored := ""
	if cmd.File != nil {
		stored, err = uc.attachments.Attach(ctx, cmd.File.Name, cmd.File.Data)
		if err != nil {
			return nil, err
		}
		rcaFilePath = stored
	}

	sid, err := id.NewServiceRequestID()
	if err != nil {
		uc.attachments.Remove(ctx, stored)
		uc.logger.Errorw("failed to generate service request ID", "error", err)
		return nil, errors.NewInternalError("failed to create service request")
	}

	sr, err := servicerequest.NewServiceRequest(sid, draft, rcaFilePath, cmd.Actor, now)
	if err != nil {
		uc.attachments.Remove(ctx, stored)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, sr); err != nil {
		uc.attachments.Remove(ctx, stored)
		uc.logger.Errorw("failed to save service request", "service_number", draft.ServiceNumber, "error", err)
		return nil, err
	}

	pending := sr.PullEvents()
	publishEvents(uc.publisher, uc.logger, pending)

	uc.logger.Infow("service request created successfully", "sid", sr.SID(), "service_number", sr.ServiceNumber())

	return &CreateServiceRequestResult{
		Request: dto.ToServiceRequestDTO(sr, map[uint]string{cmd.Actor.ID: cmd.Actor.Username}),
		Events:  pending,
	}, nil
}
