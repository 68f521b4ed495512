package servicerequest

import (
	"fmt"
	"strings"
	"time"

	vo "srdashboard/internal/domain/servicerequest/valueobjects"
)

const maxServiceNumberLength = 100

// Draft carries every caller-editable field of a service request. Create and
// Update both take a full Draft; Update replaces all mutable fields with it.
type Draft struct {
	ServiceNumber           string
	Node                    string
	Issue                   string
	Remark                  string
	OpenDate                time.Time
	ClosedDate              *time.Time
	ResponsePersonMobitel   string
	ResponsePersonHuawei    string
	Status                  vo.Status
	Description             string
	WorkAroundRectification string
}

// Normalize trims the short text fields, defaults the status to open and the
// open date to now, and drops sub-millisecond precision so values survive a
// round trip through storage unchanged.
func (d Draft) Normalize(now time.Time) Draft {
	d.ServiceNumber = strings.TrimSpace(d.ServiceNumber)
	d.Node = strings.TrimSpace(d.Node)
	d.Issue = strings.TrimSpace(d.Issue)
	d.Remark = strings.TrimSpace(d.Remark)
	d.ResponsePersonMobitel = strings.TrimSpace(d.ResponsePersonMobitel)
	d.ResponsePersonHuawei = strings.TrimSpace(d.ResponsePersonHuawei)

	if d.Status == "" {
		d.Status = vo.StatusOpen
	}
	if d.OpenDate.IsZero() {
		d.OpenDate = now
	}
	d.OpenDate = truncate(d.OpenDate)
	if d.ClosedDate != nil {
		closed := truncate(*d.ClosedDate)
		d.ClosedDate = &closed
	}
	return d
}

// Validate checks a normalized draft.
func (d Draft) Validate() error {
	if d.ServiceNumber == "" {
		return fmt.Errorf("service number is required")
	}
	if len(d.ServiceNumber) > maxServiceNumberLength {
		return fmt.Errorf("service number exceeds maximum length of %d characters", maxServiceNumberLength)
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", d.Status)
	}
	if d.OpenDate.IsZero() {
		return fmt.Errorf("open date is required")
	}
	if d.Status.IsClosed() && d.ClosedDate == nil {
		return fmt.Errorf("closed date is required when status is closed")
	}
	return nil
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
