package valueobjects

import "fmt"

// Status is the flat lifecycle state of a service request. Any status may
// follow any other.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
)

// StatusFilterAll is the list filter sentinel meaning "any status".
const StatusFilterAll = "all"

var validStatuses = map[Status]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusClosed:     true,
}

// AllStatuses returns the statuses in display order.
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) IsClosed() bool {
	return s == StatusClosed
}

// NewStatus parses s; an empty string yields StatusOpen.
func NewStatus(s string) (Status, error) {
	if s == "" {
		return StatusOpen, nil
	}
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %s", s)
	}
	return status, nil
}

// ParseStatusFilter parses a list filter value. Empty and "all" mean no
// restriction and yield nil.
func ParseStatusFilter(s string) (*Status, error) {
	if s == "" || s == StatusFilterAll {
		return nil, nil
	}
	status := Status(s)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status filter: %s", s)
	}
	return &status, nil
}
