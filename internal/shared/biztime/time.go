// Package biztime centralises clock access. Storage and transport use UTC;
// the display timezone is only used when rendering human-facing text such as
// notification e-mails.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	displayLocation *time.Location
	locationOnce    sync.Once
	initErr         error
)

// Init sets the display timezone. Only the first call has an effect.
func Init(tz string) error {
	locationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		displayLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func Location() *time.Location {
	if displayLocation == nil {
		if err := Init(""); err != nil {
			return time.UTC
		}
	}
	return displayLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatForDisplay renders t in the display timezone.
func FormatForDisplay(t time.Time) string {
	return t.In(Location()).Format("2006-01-02 15:04 MST")
}

// ParseTrackerTime parses the RFC 3339 timestamps the tracker emits,
// with or without fractional seconds, and returns them in UTC.
func ParseTrackerTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid tracker timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// UnixMilli converts a stored millisecond timestamp back to UTC time.
func UnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
