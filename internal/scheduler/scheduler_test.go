package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notiabet/internal/board"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/timebucket"
)

type recordingLoader struct {
	mu          sync.Mutex
	days        []timebucket.DayKey
	books       []string
	invalidated int
}

func (l *recordingLoader) Load(_ context.Context, day timebucket.DayKey, sportsbook string) (*board.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.days = append(l.days, day)
	l.books = append(l.books, sportsbook)
	return &board.Snapshot{Day: day, Sportsbook: sportsbook}, true
}

func (l *recordingLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated++
}

func (l *recordingLoader) loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.days)
}

func newYorkCalendar(t *testing.T, now time.Time) *timebucket.Calendar {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return timebucket.NewCalendarIn(ny, timebucket.WithClock(func() time.Time { return now }))
}

func TestRefreshToday_UsesReferenceDay(t *testing.T) {
	// 02:30 UTC on the 11th is still the evening of the 10th in New York.
	cal := newYorkCalendar(t, time.Date(2025, 3, 11, 2, 30, 0, 0, time.UTC))
	loader := &recordingLoader{}
	s := NewScheduler(loader, cal, time.Second, logger.Discard())

	s.RefreshToday("fanduel")

	require.Equal(t, 1, loader.loads())
	assert.Equal(t, timebucket.DayKey("2025-03-10"), loader.days[0])
	assert.Equal(t, "fanduel", loader.books[0])
}

func TestScheduleJobs(t *testing.T) {
	cal := newYorkCalendar(t, time.Now())
	s := NewScheduler(&recordingLoader{}, cal, time.Second, logger.Discard())

	require.Error(t, s.Start(), "no jobs scheduled")

	require.NoError(t, s.ScheduleRefresh(time.Second, "fanduel"))
	require.NoError(t, s.ScheduleMidnightRollover("fanduel"))
	assert.Len(t, s.Entries(), 2)
	assert.True(t, s.GetNextRun().IsZero(), "no next run before start")

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleRefresh(time.Minute, "fanduel"), "cannot add jobs while running")

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(minRefreshInterval), next, 2*time.Second)

	for _, e := range s.Entries() {
		assert.Equal(t, cal.Location().String(), e.Next.Location().String())
	}
}

func TestScheduleMidnightRollover_RunsAtLocalMidnight(t *testing.T) {
	cal := newYorkCalendar(t, time.Now())
	s := NewScheduler(&recordingLoader{}, cal, time.Second, logger.Discard())
	require.NoError(t, s.ScheduleMidnightRollover("fanduel"))
	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.Entries()[0].Next.In(cal.Location())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 5, next.Minute())
}

func TestScheduleRefresh_RunsJob(t *testing.T) {
	cal := newYorkCalendar(t, time.Now())
	loader := &recordingLoader{}
	s := NewScheduler(loader, cal, time.Second, logger.Discard())
	s.gracefulTimeout = 5 * time.Second

	// ScheduleRefresh floors the interval at five seconds.
	require.NoError(t, s.add("refresh_board", "@every 1s", func() { s.RefreshToday("fanduel") }))
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool { return loader.loads() > 0 }, 5*time.Second, 50*time.Millisecond)
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestStop_WhenNotRunning(t *testing.T) {
	s := NewScheduler(&recordingLoader{}, newYorkCalendar(t, time.Now()), 0, logger.Discard())
	assert.NoError(t, s.Stop())
	assert.Equal(t, 90*time.Second, s.jobTimeout)
}
