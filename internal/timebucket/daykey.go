// Package timebucket maps instants onto calendar days of a fixed reference
// timezone. Results never depend on the process's local zone.
package timebucket

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical DayKey format.
const Layout = "2006-01-02"

// DayKey is a YYYY-MM-DD civil date in the reference zone.
type DayKey string

// Unknown is returned for instants that cannot be resolved. It never matches
// another key, itself included.
const Unknown DayKey = ""

// ErrInvalidDayKey is returned by ParseDayKey.
var ErrInvalidDayKey = errors.New("invalid day key")

// instantLayouts are tried in order. Zone-less forms are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// String implements fmt.Stringer.
func (k DayKey) String() string {
	if k == Unknown {
		return "unknown"
	}
	return string(k)
}

// IsKnown reports whether k is a real day.
func (k DayKey) IsKnown() bool {
	return k != Unknown
}

// Matches is the equality used for bucketing. Unknown keys never match.
func (k DayKey) Matches(other DayKey) bool {
	return k.IsKnown() && other.IsKnown() && k == other
}

// Date returns the civil date of k at noon in loc. Noon keeps day
// arithmetic clear of DST transitions.
func (k DayKey) Date(loc *time.Location) (time.Time, bool) {
	if !k.IsKnown() || loc == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, string(k), loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), true
}

// ParseDayKey validates a YYYY-MM-DD string.
func ParseDayKey(s string) (DayKey, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	return DayKey(t.Format(Layout)), nil
}

// DayKeyOf projects t into loc and returns its civil date.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	if t.IsZero() || loc == nil {
		return Unknown
	}
	return DayKey(t.In(loc).Format(Layout))
}

// DayKeyFromInstant parses an ISO-8601 timestamp and buckets it into loc.
// Unparseable input yields Unknown.
func DayKeyFromInstant(instant string, loc *time.Location) DayKey {
	t, ok := ParseInstant(instant)
	if !ok {
		return Unknown
	}
	return DayKeyOf(t, loc)
}

// ParseInstant parses the timestamp forms the prediction service emits.
func ParseInstant(instant string) (time.Time, bool) {
	instant = strings.TrimSpace(instant)
	if instant == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, instant, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
