package ml

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// CheckHealth probes the service. It returns nil when the service is
// unreachable or answers with something other than a health payload.
func (c *Client) CheckHealth(ctx context.Context) *models.HealthStatus {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var health models.HealthStatus
	err := c.http.getJSON(ctx, c.endpoint(HealthPath, nil), uuid.NewString(), &health)
	if err == nil {
		err = health.Validate()
	}

	ServiceCallsTotal.WithLabelValues("health", callStatus(err)).Inc()
	if err != nil {
		ServiceUp.Set(0)
		c.log.LogHealthProbe(false, "", time.Since(start), err)
		return nil
	}

	if health.OK() {
		ServiceUp.Set(1)
	} else {
		ServiceUp.Set(0)
	}
	c.log.LogHealthProbe(health.OK(), health.Status, time.Since(start), nil)
	return &health
}

// OptimizeStrategy asks the service for a staking plan for the bankroll.
// Plans are computed remotely only; nil is returned on any failure.
func (c *Client) OptimizeStrategy(ctx context.Context, bankroll float64) *models.StrategyPlan {
	start := time.Now()
	if bankroll <= 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) {
		c.log.LogStrategyRequest(bankroll, 0, 0, fmt.Errorf("%w: %v", ErrInvalidBankroll, bankroll))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var plan models.StrategyPlan
	err := c.http.postJSON(ctx, c.endpoint(StrategyPath, nil), uuid.NewString(),
		models.StrategyRequest{Bankroll: bankroll}, &plan)
	if err == nil {
		err = plan.Validate()
	}

	ServiceCallsTotal.WithLabelValues("strategy", callStatus(err)).Inc()
	if err != nil {
		c.log.LogStrategyRequest(bankroll, 0, time.Since(start), err)
		return nil
	}
	c.log.LogStrategyRequest(bankroll, len(plan.ProposedBets), time.Since(start), nil)
	return &plan
}

// GetHistory fetches audited past predictions, newest first. A non-positive
// limit means 100; an unknown day means all days.
func (c *Client) GetHistory(ctx context.Context, limit int, day timebucket.DayKey) *models.HistoryPage {
	start := time.Now()
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if day.IsKnown() {
		query.Set("game_date", string(day))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var page models.HistoryPage
	err := c.http.getJSON(ctx, c.endpoint(HistoryPath, query), uuid.NewString(), &page)
	if err == nil {
		err = page.Validate()
	}

	ServiceCallsTotal.WithLabelValues("history", callStatus(err)).Inc()
	if err != nil {
		c.log.LogLookup("history", 0, time.Since(start), err)
		return nil
	}
	c.log.LogLookup("history", page.Count, time.Since(start), nil)
	return &page
}

// GetStats fetches aggregate accuracy figures.
func (c *Client) GetStats(ctx context.Context) *models.PredictionStats {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stats models.PredictionStats
	err := c.http.getJSON(ctx, c.endpoint(StatsPath, nil), uuid.NewString(), &stats)

	ServiceCallsTotal.WithLabelValues("stats", callStatus(err)).Inc()
	if err != nil {
		c.log.LogLookup("stats", 0, time.Since(start), err)
		return nil
	}
	c.log.LogLookup("stats", stats.TotalPredictions, time.Since(start), nil)
	return &stats
}
