package usecases

import (
	"context"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/application/servicerequest/export"
)

type CreateServiceRequestExecutor interface {
	Execute(ctx context.Context, cmd CreateServiceRequestCommand) (*CreateServiceRequestResult, error)
}

type UpdateServiceRequestExecutor interface {
	Execute(ctx context.Context, cmd UpdateServiceRequestCommand) (*UpdateServiceRequestResult, error)
}

type DeleteServiceRequestExecutor interface {
	Execute(ctx context.Context, cmd DeleteServiceRequestCommand) (*DeleteServiceRequestResult, error)
}

type GetServiceRequestExecutor interface {
	Execute(ctx context.Context, query GetServiceRequestQuery) (*dto.ServiceRequestDTO, error)
}

type ListServiceRequestsExecutor interface {
	Execute(ctx context.Context, query ListServiceRequestsQuery) (*ListServiceRequestsResult, error)
}

type GetStatsExecutor interface {
	Execute(ctx context.Context) (*dto.StatsDTO, error)
}

type ExportServiceRequestsExecutor interface {
	Execute(ctx context.Context) (*export.File, error)
}

type UploadRCAFileExecutor interface {
	Execute(ctx context.Context, cmd UploadRCAFileCommand) (*dto.UploadDTO, error)
}

// AttachmentManager is the subset of attachment.Manager the use cases need.
type AttachmentManager interface {
	Attach(ctx context.Context, fileName string, data []byte) (string, error)
	Remove(ctx context.Context, path string)
	Exists(ctx context.Context, path string) (bool, error)
}
