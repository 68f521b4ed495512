// Package biztime holds the business timezone. Storage and transport use UTC;
// the business timezone only affects how dates are rendered for people.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Colombo"

	// DateTimeLayout renders timestamps independent of any client locale.
	DateTimeLayout = "2006-01-02 15:04:05"
)

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}

	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, falling back to UTC when the
// configured zone database is unavailable.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDateTime renders t in the business timezone; the zero time renders empty.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(DateTimeLayout)
}

// FormatDate renders the calendar date of t in the business timezone (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(time.DateOnly)
}
