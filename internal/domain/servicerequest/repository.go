package servicerequest

import (
	"context"
	"time"

	vo "srdashboard/internal/domain/servicerequest/valueobjects"
)

// Repository persists service requests. Lookups return (nil, nil) when the
// request does not exist. Create and Update return a conflict AppError when
// the service number is already taken.
type Repository interface {
	Create(ctx context.Context, sr *ServiceRequest) error
	Update(ctx context.Context, sr *ServiceRequest) error
	Delete(ctx context.Context, id uint) error
	GetBySID(ctx context.Context, sid string) (*ServiceRequest, error)
	GetByServiceNumber(ctx context.Context, serviceNumber string) (*ServiceRequest, error)
	GetByRCAFilePath(ctx context.Context, path string) (*ServiceRequest, error)
	List(ctx context.Context, filter Filter) ([]*ServiceRequest, int64, error)
	ListAll(ctx context.Context) ([]*ServiceRequest, error)
	Count(ctx context.Context, predicate CountPredicate) (int64, error)
}

// Filter selects one page of requests, newest first. An empty ServiceNumber
// and a nil Status mean no restriction on that field.
type Filter struct {
	ServiceNumber string
	Status        *vo.Status
	Page          int
	PageSize      int
}

// CountPredicate restricts Count. Nil fields mean no restriction.
type CountPredicate struct {
	Status       *vo.Status
	CreatedSince *time.Time
}
