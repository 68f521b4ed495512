package servicerequest

import (
	"time"

	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/shared/events"
)

const (
	EventTypeRequestCreated = "servicerequest.created"
	EventTypeStatusChanged  = "servicerequest.status_changed"
)

// Snapshot is an immutable copy of a request taken when an event is recorded.
type Snapshot struct {
	SID                     string
	ServiceNumber           string
	Node                    string
	Issue                   string
	Remark                  string
	OpenDate                time.Time
	ClosedDate              *time.Time
	ResponsePersonMobitel   string
	ResponsePersonHuawei    string
	Status                  vo.Status
	RCAFilePath             string
	Description             string
	WorkAroundRectification string
}

// Snapshot copies the current state.
func (sr *ServiceRequest) Snapshot() Snapshot {
	var closed *time.Time
	if sr.closedDate != nil {
		c := *sr.closedDate
		closed = &c
	}
	return Snapshot{
		SID:                     sr.sid,
		ServiceNumber:           sr.serviceNumber,
		Node:                    sr.node,
		Issue:                   sr.issue,
		Remark:                  sr.remark,
		OpenDate:                sr.openDate,
		ClosedDate:              closed,
		ResponsePersonMobitel:   sr.responsePersonMobitel,
		ResponsePersonHuawei:    sr.responsePersonHuawei,
		Status:                  sr.status,
		RCAFilePath:             sr.rcaFilePath,
		Description:             sr.description,
		WorkAroundRectification: sr.workAroundRectification,
	}
}

type RequestCreatedEvent struct {
	events.BaseEvent
	Request       Snapshot
	ActorUsername string
}

func NewRequestCreatedEvent(request Snapshot, actorUsername string, occurredAt time.Time) RequestCreatedEvent {
	return RequestCreatedEvent{
		BaseEvent:     events.NewBaseEvent(request.SID, EventTypeRequestCreated, occurredAt),
		Request:       request,
		ActorUsername: actorUsername,
	}
}

type StatusChangedEvent struct {
	events.BaseEvent
	Request       Snapshot
	OldStatus     vo.Status
	NewStatus     vo.Status
	ActorUsername string
}

func NewStatusChangedEvent(request Snapshot, oldStatus, newStatus vo.Status, actorUsername string, occurredAt time.Time) StatusChangedEvent {
	return StatusChangedEvent{
		BaseEvent:     events.NewBaseEvent(request.SID, EventTypeStatusChanged, occurredAt),
		Request:       request,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ActorUsername: actorUsername,
	}
}
