// Package scheduler runs periodic board refreshes in the reference timezone.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/notiabet/internal/board"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/metrics"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// MidnightSpec re-anchors the board shortly after the reference day rolls over.
const MidnightSpec = "5 0 * * *"

const minRefreshInterval = 5 * time.Second

// Loader refreshes a board. *board.Board satisfies it.
type Loader interface {
	Load(ctx context.Context, day timebucket.DayKey, sportsbook string) (*board.Snapshot, bool)
	Invalidate()
}

// Scheduler manages scheduled board refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	loader          Loader
	calendar        *timebucket.Calendar
	logger          *logger.ServerLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler whose cron expressions are read in the
// calendar's zone. jobTimeout bounds each refresh.
func NewScheduler(loader Loader, cal *timebucket.Calendar, jobTimeout time.Duration, log *logrus.Logger) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = 90 * time.Second
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(cal.Location())),
		loader:          loader,
		calendar:        cal,
		logger:          logger.NewServerLogger(log),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      jobTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRefresh reloads today's board for sportsbook every interval.
// Intervals below five seconds are raised to five.
func (s *Scheduler) ScheduleRefresh(interval time.Duration, sportsbook string) error {
	if interval < minRefreshInterval {
		interval = minRefreshInterval
	}
	spec := fmt.Sprintf("@every %s", interval)
	return s.add("refresh_board", spec, func() {
		s.RefreshToday(sportsbook)
	})
}

// ScheduleMidnightRollover drops cached boards and loads the new day.
func (s *Scheduler) ScheduleMidnightRollover(sportsbook string) error {
	return s.add("midnight_rollover", MidnightSpec, func() {
		s.loader.Invalidate()
		s.RefreshToday(sportsbook)
	})
}

// RefreshToday loads today's board once.
func (s *Scheduler) RefreshToday(sportsbook string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.loader.Load(ctx, s.calendar.Today(), sportsbook)
	metrics.RecordJobRun("refresh_board", time.Since(start).Seconds())
}

func (s *Scheduler) add(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.LogJobScheduled(name, spec)

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
