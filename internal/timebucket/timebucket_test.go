package timebucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestDayKeyOf(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	// 02:30 UTC is still the previous evening in New York.
	instant := time.Date(2025, 1, 16, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, DayKey("2025-01-15"), DayKeyOf(instant, ny))
	assert.Equal(t, DayKey("2025-01-16"), DayKeyOf(instant, time.UTC))

	assert.Equal(t, Unknown, DayKeyOf(time.Time{}, ny))
	assert.Equal(t, Unknown, DayKeyOf(instant, nil))
}

func TestDayKeyIndependentOfLocalZone(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	original := time.Local
	defer func() { time.Local = original }()

	instant := "2025-03-09T03:15:00Z"
	var keys []DayKey
	for _, zone := range []string{"UTC", "Asia/Tokyo", "Pacific/Honolulu", "America/Bogota"} {
		time.Local = mustLoad(t, zone)
		keys = append(keys, DayKeyFromInstant(instant, ny))
		keys = append(keys, DayKeyFromInstant(instant, ny))
	}

	for _, k := range keys {
		assert.Equal(t, DayKey("2025-03-08"), k)
	}
}

func TestDayKeyFromInstant(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name     string
		instant  string
		expected DayKey
	}{
		{"rfc3339 utc", "2025-01-15T23:30:00Z", "2025-01-15"},
		{"rfc3339 offset", "2025-01-15T20:00:00-05:00", "2025-01-15"},
		{"late game rolls back", "2025-01-16T03:00:00Z", "2025-01-15"},
		{"fractional seconds", "2025-01-16T05:00:00.123456Z", "2025-01-16"},
		{"zone-less read as utc", "2025-01-16T03:00:00", "2025-01-15"},
		{"space separator", "2025-01-16 18:00:00", "2025-01-16"},
		{"empty", "", Unknown},
		{"garbage", "tonight", Unknown},
		{"date only", "2025-01-16", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayKeyFromInstant(tt.instant, ny))
		})
	}
}

func TestUnknownNeverMatches(t *testing.T) {
	assert.False(t, Unknown.Matches(Unknown))
	assert.False(t, Unknown.Matches("2025-01-15"))
	assert.False(t, DayKey("2025-01-15").Matches(Unknown))
	assert.True(t, DayKey("2025-01-15").Matches("2025-01-15"))
	assert.Equal(t, "unknown", Unknown.String())
}

func TestParseDayKey(t *testing.T) {
	k, err := ParseDayKey(" 2025-02-01 ")
	require.NoError(t, err)
	assert.Equal(t, DayKey("2025-02-01"), k)

	_, err = ParseDayKey("2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDayKey)

	_, err = ParseDayKey("02/01/2025")
	assert.ErrorIs(t, err, ErrInvalidDayKey)
}

func TestCalendarToday(t *testing.T) {
	now := time.Date(2025, 1, 16, 4, 0, 0, 0, time.UTC)

	ny, err := NewCalendar("America/New_York", WithClock(fixedClock(now)))
	require.NoError(t, err)
	assert.Equal(t, DayKey("2025-01-15"), ny.Today())

	tokyo, err := NewCalendar("Asia/Tokyo", WithClock(fixedClock(now)))
	require.NoError(t, err)
	assert.Equal(t, DayKey("2025-01-16"), tokyo.Today())

	_, err = NewCalendar("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestDateStripShape(t *testing.T) {
	now := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
	cal, err := NewCalendar("America/New_York", WithClock(fixedClock(now)))
	require.NoError(t, err)

	strip := cal.DateStrip("2025-01-15")
	require.Len(t, strip, WindowSize)
	assert.Equal(t, 10, len(strip))

	assert.Equal(t, DayKey("2025-01-08"), strip[0].Key)
	assert.Equal(t, DayKey("2025-01-17"), strip[9].Key)
	assert.Equal(t, -7, strip[0].Offset)
	assert.Equal(t, 2, strip[9].Offset)

	assert.Equal(t, "Yesterday", strip[6].Label)
	assert.Equal(t, "Today", strip[7].Label)
	assert.Equal(t, "Tomorrow", strip[8].Label)
	assert.Equal(t, "Fri", strip[9].Label)
	assert.Equal(t, "Wed", strip[0].Label)
	assert.Equal(t, 17, strip[9].DayOfMonth)

	var containsToday bool
	for _, d := range strip {
		if d.Key.Matches(cal.Today()) {
			containsToday = true
		}
	}
	assert.True(t, containsToday)
}

func TestDateStripActive(t *testing.T) {
	now := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
	cal := NewCalendarIn(mustLoad(t, "America/New_York"), WithClock(fixedClock(now)))

	countActive := func(strip []DayDescriptor) int {
		n := 0
		for _, d := range strip {
			if d.Active {
				n++
			}
		}
		return n
	}

	tests := []struct {
		name     string
		selected DayKey
		active   int
	}{
		{"today", "2025-01-15", 1},
		{"window start", "2025-01-08", 1},
		{"window end", "2025-01-17", 1},
		{"before window", "2025-01-07", 0},
		{"after window", "2025-01-18", 0},
		{"unknown", Unknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strip := cal.DateStrip(tt.selected)
			assert.Len(t, strip, 10)
			assert.Equal(t, tt.active, countActive(strip))
		})
	}
}

func TestDateStripAcrossDST(t *testing.T) {
	// 2025-03-09 is the spring-forward day in New York.
	now := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	cal := NewCalendarIn(mustLoad(t, "America/New_York"), WithClock(fixedClock(now)))

	strip := cal.DateStrip(cal.Today())
	require.Len(t, strip, 10)
	for i := 1; i < len(strip); i++ {
		assert.Equal(t, cal.Shift(strip[i-1].Key, 1), strip[i].Key)
	}
}

func TestDateStripSpanishLabels(t *testing.T) {
	now := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)
	cal := NewCalendarIn(mustLoad(t, "America/Bogota"),
		WithClock(fixedClock(now)),
		WithLabels(LabelsFor("es-CO")),
	)

	strip := cal.DateStrip(cal.Today())
	assert.Equal(t, "Ayer", strip[6].Label)
	assert.Equal(t, "Hoy", strip[7].Label)
	assert.Equal(t, "Mañana", strip[8].Label)
	assert.Equal(t, EnglishLabels, LabelsFor("fr"))
}

func TestSupportedLocale(t *testing.T) {
	for _, tag := range []string{"en", "en-GB", "es", "es-CO", "es_MX", " ES "} {
		assert.True(t, SupportedLocale(tag), tag)
	}
	for _, tag := range []string{"", "fr", "esp", "pt_BR"} {
		assert.False(t, SupportedLocale(tag), tag)
	}
	assert.Equal(t, SpanishLabels, LabelsFor("es_MX"))
}

func TestShift(t *testing.T) {
	cal := NewCalendarIn(time.UTC)
	assert.Equal(t, DayKey("2025-03-01"), cal.Shift("2025-02-28", 1))
	assert.Equal(t, DayKey("2024-12-31"), cal.Shift("2025-01-01", -1))
	assert.Equal(t, Unknown, cal.Shift(Unknown, 1))
}
