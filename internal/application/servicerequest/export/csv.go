// Package export renders service requests as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/shared/biztime"
)

const CSVContentType = "text/csv"

// Header is the fixed column order of the CSV export.
var Header = []string{
	"Service Number",
	"Node",
	"Issue",
	"Remark",
	"Open Date",
	"Closed Date",
	"Mobitel Contact",
	"Huawei Contact",
	"Status",
	"RCA File",
	"Description",
	"Work Around",
	"Created By",
	"Created Date",
	"Updated By",
	"Updated Date",
}

// File is a rendered export ready to be sent as an attachment.
type File struct {
	FileName    string
	ContentType string
	Content     []byte
}

// CSVEncoder renders timestamps in a fixed business timezone.
type CSVEncoder struct {
	loc *time.Location
}

func NewCSVEncoder(loc *time.Location) *CSVEncoder {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVEncoder{loc: loc}
}

// FileName returns service-requests-YYYY-MM-DD.csv for the business date of now.
func (e *CSVEncoder) FileName(now time.Time) string {
	return fmt.Sprintf("service-requests-%s.csv", now.In(e.loc).Format(time.DateOnly))
}

// Encode writes the header and one row per request in the given order.
// Fields containing commas, quotes or newlines are quoted with embedded
// quotes doubled.
func (e *CSVEncoder) Encode(items []*servicerequest.ServiceRequest, usernames map[uint]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, sr := range items {
		if err := w.Write(e.row(sr, usernames)); err != nil {
			return nil, fmt.Errorf("failed to write csv row for %s: %w", sr.SID(), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Render encodes items into a named file.
func (e *CSVEncoder) Render(items []*servicerequest.ServiceRequest, usernames map[uint]string, now time.Time) (*File, error) {
	content, err := e.Encode(items, usernames)
	if err != nil {
		return nil, err
	}
	return &File{
		FileName:    e.FileName(now),
		ContentType: CSVContentType,
		Content:     content,
	}, nil
}

func (e *CSVEncoder) row(sr *servicerequest.ServiceRequest, usernames map[uint]string) []string {
	closed := ""
	if sr.ClosedDate() != nil {
		closed = e.format(*sr.ClosedDate())
	}

	return []string{
		sr.ServiceNumber(),
		sr.Node(),
		sr.Issue(),
		sr.Remark(),
		e.format(sr.OpenDate()),
		closed,
		sr.ResponsePersonMobitel(),
		sr.ResponsePersonHuawei(),
		sr.Status().String(),
		sr.RCAFilePath(),
		sr.Description(),
		sr.WorkAroundRectification(),
		usernames[sr.CreatedBy()],
		e.format(sr.CreatedAt()),
		usernames[sr.UpdatedBy()],
		e.format(sr.UpdatedAt()),
	}
}

func (e *CSVEncoder) format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.loc).Format(biztime.DateTimeLayout)
}
