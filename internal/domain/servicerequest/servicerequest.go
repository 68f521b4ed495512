package servicerequest

import (
	"fmt"
	"time"

	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/domain/user"
)

// ServiceRequest is a tracked fault ticket.
type ServiceRequest struct {
	id                      uint
	sid                     string
	serviceNumber           string
	node                    string
	issue                   string
	remark                  string
	openDate                time.Time
	closedDate              *time.Time
	responsePersonMobitel   string
	responsePersonHuawei    string
	status                  vo.Status
	rcaFilePath             string
	description             string
	workAroundRectification string
	createdBy               uint
	updatedBy               uint
	createdAt               time.Time
	updatedAt               time.Time

	events []events.DomainEvent
}

// NewServiceRequest creates a request from draft and records a
// RequestCreatedEvent. rcaFilePath may be empty.
func NewServiceRequest(sid string, draft Draft, rcaFilePath string, actor user.Actor, now time.Time) (*ServiceRequest, error) {
	if sid == "" {
		return nil, fmt.Errorf("service request SID is required")
	}
	if actor.IsZero() {
		return nil, fmt.Errorf("actor is required")
	}

	now = truncate(now)
	draft = draft.Normalize(now)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	sr := &ServiceRequest{
		sid:         sid,
		rcaFilePath: rcaFilePath,
		createdBy:   actor.ID,
		updatedBy:   actor.ID,
		createdAt:   now,
		updatedAt:   now,
	}
	sr.apply(draft)
	sr.recordEvent(NewRequestCreatedEvent(sr.Snapshot(), actor.Username, now))

	return sr, nil
}

// ReconstructServiceRequest rebuilds a stored request without recording events.
func ReconstructServiceRequest(
	id uint,
	sid string,
	draft Draft,
	rcaFilePath string,
	createdBy, updatedBy uint,
	createdAt, updatedAt time.Time,
) (*ServiceRequest, error) {
	if id == 0 {
		return nil, fmt.Errorf("service request ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("service request SID is required")
	}
	if !draft.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", draft.Status)
	}

	sr := &ServiceRequest{
		id:          id,
		sid:         sid,
		rcaFilePath: rcaFilePath,
		createdBy:   createdBy,
		updatedBy:   updatedBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	sr.apply(draft)
	return sr, nil
}

// Replace overwrites every mutable field with draft. A non-nil rcaFilePath
// replaces the attachment reference and the previous one is returned.
// A StatusChangedEvent is recorded only when the status actually changes.
func (sr *ServiceRequest) Replace(draft Draft, rcaFilePath *string, actor user.Actor, now time.Time) (previousRCAFilePath string, err error) {
	if actor.IsZero() {
		return "", fmt.Errorf("actor is required")
	}

	now = truncate(now)
	draft = draft.Normalize(now)
	if err := draft.Validate(); err != nil {
		return "", err
	}

	oldStatus := sr.status
	sr.apply(draft)
	if rcaFilePath != nil && *rcaFilePath != sr.rcaFilePath {
		previousRCAFilePath = sr.rcaFilePath
		sr.rcaFilePath = *rcaFilePath
	}
	sr.updatedBy = actor.ID
	sr.updatedAt = now

	if oldStatus != sr.status {
		sr.recordEvent(NewStatusChangedEvent(sr.Snapshot(), oldStatus, sr.status, actor.Username, now))
	}

	return previousRCAFilePath, nil
}

func (sr *ServiceRequest) apply(d Draft) {
	sr.serviceNumber = d.ServiceNumber
	sr.node = d.Node
	sr.issue = d.Issue
	sr.remark = d.Remark
	sr.openDate = d.OpenDate
	sr.closedDate = d.ClosedDate
	sr.responsePersonMobitel = d.ResponsePersonMobitel
	sr.responsePersonHuawei = d.ResponsePersonHuawei
	sr.status = d.Status
	sr.description = d.Description
	sr.workAroundRectification = d.WorkAroundRectification
}

func (sr *ServiceRequest) recordEvent(e events.DomainEvent) {
	sr.events = append(sr.events, e)
}

// PullEvents returns the events recorded since the last call and clears them.
func (sr *ServiceRequest) PullEvents() []events.DomainEvent {
	pending := sr.events
	sr.events = nil
	return pending
}

// SetID is called by the repository once the row is inserted.
func (sr *ServiceRequest) SetID(id uint) {
	sr.id = id
}

// Draft returns the current mutable fields.
func (sr *ServiceRequest) Draft() Draft {
	return Draft{
		ServiceNumber:           sr.serviceNumber,
		Node:                    sr.node,
		Issue:                   sr.issue,
		Remark:                  sr.remark,
		OpenDate:                sr.openDate,
		ClosedDate:              sr.closedDate,
		ResponsePersonMobitel:   sr.responsePersonMobitel,
		ResponsePersonHuawei:    sr.responsePersonHuawei,
		Status:                  sr.status,
		Description:             sr.description,
		WorkAroundRectification: sr.workAroundRectification,
	}
}

func (sr *ServiceRequest) ID() uint                        { return sr.id }
func (sr *ServiceRequest) SID() string                     { return sr.sid }
func (sr *ServiceRequest) ServiceNumber() string           { return sr.serviceNumber }
func (sr *ServiceRequest) Node() string                    { return sr.node }
func (sr *ServiceRequest) Issue() string                   { return sr.issue }
func (sr *ServiceRequest) Remark() string                  { return sr.remark }
func (sr *ServiceRequest) OpenDate() time.Time             { return sr.openDate }
func (sr *ServiceRequest) ClosedDate() *time.Time          { return sr.closedDate }
func (sr *ServiceRequest) ResponsePersonMobitel() string   { return sr.responsePersonMobitel }
func (sr *ServiceRequest) ResponsePersonHuawei() string    { return sr.responsePersonHuawei }
func (sr *ServiceRequest) Status() vo.Status               { return sr.status }
func (sr *ServiceRequest) RCAFilePath() string             { return sr.rcaFilePath }
func (sr *ServiceRequest) Description() string             { return sr.description }
func (sr *ServiceRequest) WorkAroundRectification() string { return sr.workAroundRectification }
func (sr *ServiceRequest) CreatedBy() uint                 { return sr.createdBy }
func (sr *ServiceRequest) UpdatedBy() uint                 { return sr.updatedBy }
func (sr *ServiceRequest) CreatedAt() time.Time            { return sr.createdAt }
func (sr *ServiceRequest) UpdatedAt() time.Time            { return sr.updatedAt }
