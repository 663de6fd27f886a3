package payload

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the normalized form of an execution timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidTimestamp indicates an execution time in an unknown layout.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// localLayouts are accepted in addition to RFC 3339 and read in the caller's
// location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an RFC 3339 timestamp, or a date and time without
// zone interpreted in loc. A nil loc means [time.Local].
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp returns t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
