package usecases

import (
	"context"
	"time"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/db"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

type UpdateServiceRequestCommand struct {
	SID    string
	Fields RequestFields
	File   *FileUpload
	Actor  user.Actor
}

type UpdateServiceRequestResult struct {
	Request *dto.ServiceRequestDTO
	Events  []events.DomainEvent
}

type UpdateServiceRequestUseCase struct {
	repo        servicerequest.Repository
	directory   user.Directory
	attachments AttachmentManager
	txManager   db.Transactor
	publisher   events.EventPublisher
	logger      logger.Interface
	now         func() time.Time
}

func NewUpdateServiceRequestUseCase(
	repo servicerequest.Repository,
	directory user.Directory,
	attachments AttachmentManager,
	txManager db.Transactor,
	publisher events.EventPublisher,
	logger logger.Interface,
) *UpdateServiceRequestUseCase {
	return &UpdateServiceRequestUseCase{
		repo:        repo,
		directory:   directory,
		attachments: attachments,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute replaces every mutable field. A new attachment is stored before the
// record is written and removed again if the write fails; the replaced
// attachment is removed only after the write commits.
func (uc *UpdateServiceRequestUseCase) Execute(ctx context.Context, cmd UpdateServiceRequestCommand) (*UpdateServiceRequestResult, error) {
	uc.logger.Infow("executing update service request use case", "sid", cmd.SID, "actor", cmd.Actor.Username)

	if cmd.Actor.IsZero() {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	now := uc.now()
	draft, err := cmd.Fields.draft(now)
	if err != nil {
		uc.logger.Warnw("invalid update service request command", "sid", cmd.SID, "error", err)
		return nil, err
	}

	newPath, err := cmd.Fields.referencedPath()
	if err != nil {
		return nil, err
	}

	stored := ""
	if cmd.File != nil {
		stored, err = uc.attachments.Attach(ctx, cmd.File.Name, cmd.File.Data)
		if err != nil {
			return nil, err
		}
		newPath = &stored
	}

	var (
		updated  *servicerequest.ServiceRequest
		previous string
	)
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := uc.repo.GetBySID(txCtx, cmd.SID)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.NewNotFoundError("Service request not found")
		}

		if draft.ServiceNumber != current.ServiceNumber() {
			other, err := uc.repo.GetByServiceNumber(txCtx, draft.ServiceNumber)
			if err != nil {
				return err
			}
			if other != nil && other.SID() != current.SID() {
				return errors.NewConflictError("Service request number already exists")
			}
		}

		if cmd.File == nil && newPath != nil && *newPath != current.RCAFilePath() {
			if err := claimReferencedPath(txCtx, uc.repo, uc.attachments, *newPath, current.SID()); err != nil {
				return err
			}
		}

		previous, err = current.Replace(draft, newPath, cmd.Actor, now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := uc.repo.Update(txCtx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		uc.attachments.Remove(ctx, stored)
		if errors.IsAppError(err) {
			uc.logger.Warnw("service request update rejected", "sid", cmd.SID, "error", err)
		} else {
			uc.logger.Errorw("failed to update service request", "sid", cmd.SID, "error", err)
		}
		return nil, err
	}

	uc.attachments.Remove(ctx, previous)

	pending := updated.PullEvents()
	publishEvents(uc.publisher, uc.logger, pending)

	usernames, err := uc.directory.GetUsernames(ctx, dto.ActorIDs(updated))
	if err != nil {
		uc.logger.Warnw("failed to resolve usernames", "sid", cmd.SID, "error", err)
		usernames = map[uint]string{cmd.Actor.ID: cmd.Actor.Username}
	}

	uc.logger.Infow("service request updated successfully", "sid", updated.SID(), "events", len(pending))

	return &UpdateServiceRequestResult{
		Request: dto.ToServiceRequestDTO(updated, usernames),
		Events:  pending,
	}, nil
}
