package timebucket

import (
	"fmt"
	"time"
)

// Window bounds of the date strip, relative to today.
const (
	DaysBefore = 7
	DaysAfter  = 2
	WindowSize = DaysBefore + 1 + DaysAfter
)

// DayDescriptor is one cell of the date strip.
type DayDescriptor struct {
	Key        DayKey `json:"key"`
	Label      string `json:"label"`
	DayOfMonth int    `json:"day_of_month"`
	Offset     int    `json:"offset"`
	Active     bool   `json:"active"`
}

// Calendar resolves "today" and navigation windows in one reference zone.
type Calendar struct {
	loc    *time.Location
	now    func() time.Time
	labels Labels
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLabels sets the date strip labels.
func WithLabels(labels Labels) Option {
	return func(c *Calendar) {
		c.labels = labels
	}
}

// NewCalendar loads the IANA zone by name.
func NewCalendar(zone string, opts ...Option) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference timezone %q: %w", zone, err)
	}
	return NewCalendarIn(loc, opts...), nil
}

// NewCalendarIn builds a Calendar for an already loaded location.
func NewCalendarIn(loc *time.Location, opts ...Option) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{
		loc:    loc,
		now:    time.Now,
		labels: EnglishLabels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the reference zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DayKey buckets t into the reference zone.
func (c *Calendar) DayKey(t time.Time) DayKey {
	return DayKeyOf(t, c.loc)
}

// DayKeyFromInstant buckets an ISO-8601 timestamp into the reference zone.
func (c *Calendar) DayKeyFromInstant(instant string) DayKey {
	return DayKeyFromInstant(instant, c.loc)
}

// Today is the current day in the reference zone.
func (c *Calendar) Today() DayKey {
	return DayKeyOf(c.now(), c.loc)
}

// IsToday reports whether key is today in the reference zone.
func (c *Calendar) IsToday(key DayKey) bool {
	return key.Matches(c.Today())
}

// Shift moves key by whole civil days. Unknown stays Unknown.
func (c *Calendar) Shift(key DayKey, days int) DayKey {
	d, ok := key.Date(c.loc)
	if !ok {
		return Unknown
	}
	return DayKey(d.AddDate(0, 0, days).Format(Layout))
}

// DateStrip returns the ten days from a week before today through the day
// after tomorrow. The window is anchored to today, not to selected; a cell is
// active only when its key matches selected.
func (c *Calendar) DateStrip(selected DayKey) []DayDescriptor {
	now := c.now().In(c.loc)
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, c.loc)

	strip := make([]DayDescriptor, 0, WindowSize)
	for offset := -DaysBefore; offset <= DaysAfter; offset++ {
		day := anchor.AddDate(0, 0, offset)
		key := DayKey(day.Format(Layout))
		strip = append(strip, DayDescriptor{
			Key:        key,
			Label:      c.labels.label(offset, day.Weekday()),
			DayOfMonth: day.Day(),
			Offset:     offset,
			Active:     key.Matches(selected),
		})
	}
	return strip
}
