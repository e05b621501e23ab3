// Package logger provides HTTP surface logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ServerLogger provides dedicated logging for the HTTP surface and scheduler.
type ServerLogger struct {
	*logrus.Entry
}

// NewServerLogger creates a new server logger.
func NewServerLogger(baseLogger *logrus.Logger) *ServerLogger {
	return &ServerLogger{
		Entry: orDiscard(baseLogger).WithField("component", "server"),
	}
}

// LogRequest logs a completed HTTP request.
func (sl *ServerLogger) LogRequest(method, path string, status int, duration time.Duration, requestID string) {
	sl.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
		"request_id":  requestID,
	}).Debug("HTTP request served")
}

// LogBoardRefresh logs a scheduled board refresh.
func (sl *ServerLogger) LogBoardRefresh(day, sportsbook, source string, count int, current bool) {
	sl.WithFields(logrus.Fields{
		"date":       day,
		"sportsbook": sportsbook,
		"source":     source,
		"count":      count,
		"current":    current,
	}).Info("Board refreshed")
}

// LogJobScheduled logs a cron registration.
func (sl *ServerLogger) LogJobScheduled(name, spec string) {
	sl.WithFields(logrus.Fields{
		"job":  name,
		"spec": spec,
	}).Info("Scheduled job")
}
