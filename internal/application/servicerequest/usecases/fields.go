package usecases

import (
	"context"
	"strings"
	"time"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

// RequestFields are the caller-editable fields shared by create and update.
// RCAFilePath, when set, references a file previously returned by the upload
// endpoint; an empty string clears the attachment. An uploaded File in the
// same command takes precedence.
type RequestFields struct {
	ServiceNumber           string
	Node                    string
	Issue                   string
	Remark                  string
	OpenDate                *time.Time
	ClosedDate              *time.Time
	ResponsePersonMobitel   string
	ResponsePersonHuawei    string
	Status                  string
	Description             string
	WorkAroundRectification string
	RCAFilePath             *string
}

// FileUpload is an attachment received with a request.
type FileUpload struct {
	Name string
	Data []byte
}

// draft converts and validates the fields as of now.
func (f RequestFields) draft(now time.Time) (servicerequest.Draft, error) {
	status, err := vo.NewStatus(f.Status)
	if err != nil {
		return servicerequest.Draft{}, errors.NewValidationError(err.Error())
	}

	d := servicerequest.Draft{
		ServiceNumber:           f.ServiceNumber,
		Node:                    f.Node,
		Issue:                   f.Issue,
		Remark:                  f.Remark,
		ClosedDate:              f.ClosedDate,
		ResponsePersonMobitel:   f.ResponsePersonMobitel,
		ResponsePersonHuawei:    f.ResponsePersonHuawei,
		Status:                  status,
		Description:             f.Description,
		WorkAroundRectification: f.WorkAroundRectification,
	}
	if f.OpenDate != nil {
		d.OpenDate = *f.OpenDate
	}

	d = d.Normalize(now)
	if err := d.Validate(); err != nil {
		return servicerequest.Draft{}, errors.NewValidationError(err.Error())
	}
	return d, nil
}

// referencedPath validates RCAFilePath. Only names directly under the uploads
// prefix are accepted.
func (f RequestFields) referencedPath() (*string, error) {
	if f.RCAFilePath == nil {
		return nil, nil
	}
	p := strings.TrimSpace(*f.RCAFilePath)
	if p == "" {
		return &p, nil
	}
	name, ok := strings.CutPrefix(p, constants.UploadsURLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, errors.NewValidationError("invalid RCA file path")
	}
	return &p, nil
}

// claimReferencedPath checks that a referenced attachment exists and is not
// owned by a request other than ownerSID. An empty ownerSID means the caller
// is creating a new request.
func claimReferencedPath(
	ctx context.Context,
	repo servicerequest.Repository,
	attachments AttachmentManager,
	path, ownerSID string,
) error {
	if path == "" {
		return nil
	}

	owner, err := repo.GetByRCAFilePath(ctx, path)
	if err != nil {
		return err
	}
	if owner != nil && owner.SID() != ownerSID {
		return errors.NewConflictError("RCA file is already attached to another service request")
	}

	exists, err := attachments.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewValidationError("RCA file not found")
	}
	return nil
}

func publishEvents(publisher events.EventPublisher, log logger.Interface, pending []events.DomainEvent) {
	if len(pending) == 0 {
		return
	}
	if err := publisher.PublishAll(pending); err != nil {
		log.Warnw("failed to publish domain events", "count", len(pending), "error", err)
	}
}
