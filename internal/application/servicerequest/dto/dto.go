package dto

import (
	"time"

	"srdashboard/internal/domain/servicerequest"
)

// ServiceRequestDTO is the API representation of a service request. CreatedBy
// and UpdatedBy carry usernames; they are empty when the user is unknown.
type ServiceRequestDTO struct {
	ID                      string     `json:"id"`
	ServiceNumber           string     `json:"serviceNumber"`
	Node                    string     `json:"node"`
	Issue                   string     `json:"issue"`
	Remark                  string     `json:"remark"`
	OpenDate                time.Time  `json:"openDate"`
	ClosedDate              *time.Time `json:"closedDate"`
	ResponsePersonMobitel   string     `json:"responsePersonMobitel"`
	ResponsePersonHuawei    string     `json:"responsePersonHuawei"`
	Status                  string     `json:"status"`
	RCAFilePath             string     `json:"rcaFilePath"`
	Description             string     `json:"description"`
	WorkAroundRectification string     `json:"workAroundRectification"`
	CreatedBy               string     `json:"createdBy"`
	UpdatedBy               string     `json:"updatedBy"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// StatsDTO holds dashboard counters.
type StatsDTO struct {
	Total          int64 `json:"total"`
	Open           int64 `json:"open"`
	InProgress     int64 `json:"inProgress"`
	Closed         int64 `json:"closed"`
	RecentRequests int64 `json:"recentRequests"`
}

// UploadDTO is returned by the standalone attachment upload.
type UploadDTO struct {
	FilePath     string `json:"filePath"`
	OriginalName string `json:"originalName"`
}

func ToServiceRequestDTO(sr *servicerequest.ServiceRequest, usernames map[uint]string) *ServiceRequestDTO {
	if sr == nil {
		return nil
	}

	return &ServiceRequestDTO{
		ID:                      sr.SID(),
		ServiceNumber:           sr.ServiceNumber(),
		Node:                    sr.Node(),
		Issue:                   sr.Issue(),
		Remark:                  sr.Remark(),
		OpenDate:                sr.OpenDate(),
		ClosedDate:              sr.ClosedDate(),
		ResponsePersonMobitel:   sr.ResponsePersonMobitel(),
		ResponsePersonHuawei:    sr.ResponsePersonHuawei(),
		Status:                  sr.Status().String(),
		RCAFilePath:             sr.RCAFilePath(),
		Description:             sr.Description(),
		WorkAroundRectification: sr.WorkAroundRectification(),
		CreatedBy:               usernames[sr.CreatedBy()],
		UpdatedBy:               usernames[sr.UpdatedBy()],
		CreatedAt:               sr.CreatedAt(),
		UpdatedAt:               sr.UpdatedAt(),
	}
}

func ToServiceRequestDTOList(items []*servicerequest.ServiceRequest, usernames map[uint]string) []*ServiceRequestDTO {
	result := make([]*ServiceRequestDTO, 0, len(items))
	for _, sr := range items {
		result = append(result, ToServiceRequestDTO(sr, usernames))
	}
	return result
}

// ActorIDs returns the distinct creator and updater ids of items.
func ActorIDs(items ...*servicerequest.ServiceRequest) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, sr := range items {
		for _, id := range []uint{sr.CreatedBy(), sr.UpdatedBy()} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
