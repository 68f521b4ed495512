package servicerequest

import (
	"fmt"
	"strings"
	"time"

	"srdashboard/internal/application/servicerequest/usecases"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/errors"
)

// ServiceRequestRequest is the body of create and update, sent either as JSON
// or as multipart form fields next to an rcaFile part.
type ServiceRequestRequest struct {
	ServiceNumber           string  `json:"serviceNumber" form:"serviceNumber"`
	Node                    string  `json:"node" form:"node" binding:"max=255"`
	Issue                   string  `json:"issue" form:"issue" binding:"max=255"`
	Remark                  string  `json:"remark" form:"remark"`
	OpenDate                string  `json:"openDate" form:"openDate"`
	ClosedDate              string  `json:"closedDate" form:"closedDate"`
	ResponsePersonMobitel   string  `json:"responsePersonMobitel" form:"responsePersonMobitel" binding:"max=255"`
	ResponsePersonHuawei    string  `json:"responsePersonHuawei" form:"responsePersonHuawei" binding:"max=255"`
	Status                  string  `json:"status" form:"status" binding:"omitempty,srstatus"`
	RCAFilePath             *string `json:"rcaFilePath" form:"rcaFilePath"`
	Description             string  `json:"description" form:"description"`
	WorkAroundRectification string  `json:"workAroundRectification" form:"workAroundRectification"`
}

// ToFields converts the request into use case fields, parsing dates.
func (r ServiceRequestRequest) ToFields() (usecases.RequestFields, error) {
	openDate, err := parseDate("openDate", r.OpenDate)
	if err != nil {
		return usecases.RequestFields{}, err
	}
	closedDate, err := parseDate("closedDate", r.ClosedDate)
	if err != nil {
		return usecases.RequestFields{}, err
	}

	return usecases.RequestFields{
		ServiceNumber:           r.ServiceNumber,
		Node:                    r.Node,
		Issue:                   r.Issue,
		Remark:                  r.Remark,
		OpenDate:                openDate,
		ClosedDate:              closedDate,
		ResponsePersonMobitel:   r.ResponsePersonMobitel,
		ResponsePersonHuawei:    r.ResponsePersonHuawei,
		Status:                  r.Status,
		Description:             r.Description,
		WorkAroundRectification: r.WorkAroundRectification,
		RCAFilePath:             r.RCAFilePath,
	}, nil
}

// localLayouts are read in the business timezone; RFC 3339 values carry their own offset.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	biztime.DateTimeLayout,
	time.DateOnly,
}

// parseDate returns nil for an empty value.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "null" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, biztime.Location()); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewValidationError(fmt.Sprintf("%s is not a valid date", field))
}
