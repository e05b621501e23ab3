// Package logger provides prediction retrieval logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RetrievalLogger records each state transition of a prediction request.
type RetrievalLogger struct {
	*logrus.Entry
}

// NewRetrievalLogger creates a new retrieval logger.
func NewRetrievalLogger(baseLogger *logrus.Logger) *RetrievalLogger {
	return &RetrievalLogger{
		Entry: orDiscard(baseLogger).WithField("component", "predictions"),
	}
}

// LogRequestStart logs the REQUESTING transition.
func (rl *RetrievalLogger) LogRequestStart(requestID string, sequence uint64, day, sportsbook string) {
	rl.WithFields(logrus.Fields{
		"request_id": requestID,
		"sequence":   sequence,
		"date":       day,
		"sportsbook": sportsbook,
	}).Debug("Prediction request started")
}

// LogRequestOutcome logs the terminal state of a request.
func (rl *RetrievalLogger) LogRequestOutcome(requestID string, sequence uint64, outcome, source string, count int, duration time.Duration, err error) {
	entry := rl.WithFields(logrus.Fields{
		"request_id":  requestID,
		"sequence":    sequence,
		"outcome":     outcome,
		"source":      source,
		"count":       count,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Prediction request failed, serving fallback")
		return
	}
	entry.Info("Prediction request resolved")
}

// LogMockMode logs a mock mode toggle.
func (rl *RetrievalLogger) LogMockMode(enabled bool) {
	rl.WithField("mock_mode", enabled).Info("Mock mode changed")
}

// LogHealthProbe logs a liveness probe of the prediction service.
func (rl *RetrievalLogger) LogHealthProbe(available bool, status string, duration time.Duration, err error) {
	entry := rl.WithFields(logrus.Fields{
		"available":   available,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Prediction service health probe failed")
		return
	}
	entry.Debug("Prediction service health probe completed")
}

// LogStrategyRequest logs a staking plan request.
func (rl *RetrievalLogger) LogStrategyRequest(bankroll float64, proposedBets int, duration time.Duration, err error) {
	entry := rl.WithFields(logrus.Fields{
		"bankroll":      bankroll,
		"proposed_bets": proposedBets,
		"duration_ms":   duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Strategy optimization unavailable")
		return
	}
	entry.Info("Strategy optimization completed")
}

// LogLookup logs a read-only lookup such as history or stats.
func (rl *RetrievalLogger) LogLookup(endpoint string, count int, duration time.Duration, err error) {
	entry := rl.WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"count":       count,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Prediction service lookup failed")
		return
	}
	entry.Debug("Prediction service lookup completed")
}

// LogStaleResult logs a response discarded because a newer request superseded it.
func (rl *RetrievalLogger) LogStaleResult(day string, generation, current uint64) {
	rl.WithFields(logrus.Fields{
		"date":       day,
		"generation": generation,
		"current":    current,
	}).Debug("Discarded stale prediction result")
}
