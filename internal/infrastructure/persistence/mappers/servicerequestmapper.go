package mappers

import (
	"fmt"
	"time"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/infrastructure/persistence/models"
)

// ServiceRequestMapper converts between the aggregate and its row.
type ServiceRequestMapper interface {
	ToModel(sr *servicerequest.ServiceRequest) *models.ServiceRequestModel
	ToDomain(model *models.ServiceRequestModel) (*servicerequest.ServiceRequest, error)
	ToDomainList(rows []models.ServiceRequestModel) ([]*servicerequest.ServiceRequest, error)
}

type ServiceRequestMapperImpl struct{}

func NewServiceRequestMapper() ServiceRequestMapper {
	return &ServiceRequestMapperImpl{}
}

func (m *ServiceRequestMapperImpl) ToModel(sr *servicerequest.ServiceRequest) *models.ServiceRequestModel {
	model := &models.ServiceRequestModel{
		ID:                      sr.ID(),
		SID:                     sr.SID(),
		ServiceNumber:           sr.ServiceNumber(),
		Node:                    sr.Node(),
		Issue:                   sr.Issue(),
		Remark:                  sr.Remark(),
		OpenDate:                sr.OpenDate().UnixMilli(),
		ResponsePersonMobitel:   sr.ResponsePersonMobitel(),
		ResponsePersonHuawei:    sr.ResponsePersonHuawei(),
		Status:                  sr.Status().String(),
		RCAFilePath:             sr.RCAFilePath(),
		Description:             sr.Description(),
		WorkAroundRectification: sr.WorkAroundRectification(),
		CreatedBy:               sr.CreatedBy(),
		UpdatedBy:               sr.UpdatedBy(),
		CreatedAt:               sr.CreatedAt().UnixMilli(),
		UpdatedAt:               sr.UpdatedAt().UnixMilli(),
	}

	if sr.ClosedDate() != nil {
		closed := sr.ClosedDate().UnixMilli()
		model.ClosedDate = &closed
	}

	return model
}

func (m *ServiceRequestMapperImpl) ToDomain(model *models.ServiceRequestModel) (*servicerequest.ServiceRequest, error) {
	if model == nil {
		return nil, nil
	}

	draft := servicerequest.Draft{
		ServiceNumber:           model.ServiceNumber,
		Node:                    model.Node,
		Issue:                   model.Issue,
		Remark:                  model.Remark,
		OpenDate:                fromMillis(model.OpenDate),
		ResponsePersonMobitel:   model.ResponsePersonMobitel,
		ResponsePersonHuawei:    model.ResponsePersonHuawei,
		Status:                  vo.Status(model.Status),
		Description:             model.Description,
		WorkAroundRectification: model.WorkAroundRectification,
	}
	if model.ClosedDate != nil {
		closed := fromMillis(*model.ClosedDate)
		draft.ClosedDate = &closed
	}

	sr, err := servicerequest.ReconstructServiceRequest(
		model.ID,
		model.SID,
		draft,
		model.RCAFilePath,
		model.CreatedBy,
		model.UpdatedBy,
		fromMillis(model.CreatedAt),
		fromMillis(model.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct service request %d: %w", model.ID, err)
	}
	return sr, nil
}

func (m *ServiceRequestMapperImpl) ToDomainList(rows []models.ServiceRequestModel) ([]*servicerequest.ServiceRequest, error) {
	result := make([]*servicerequest.ServiceRequest, 0, len(rows))
	for i := range rows {
		sr, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, sr)
	}
	return result, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
