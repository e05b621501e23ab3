// Package ml provides the client for the remote prediction service.
package ml

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/notiabet/internal/config"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/timebucket"
)

const (
	// DefaultTimeout bounds a full round trip to the prediction service.
	DefaultTimeout = 60 * time.Second

	// DefaultSportsbook is used when a request names none.
	DefaultSportsbook = "fanduel"

	PredictionsPath = "/api/predictions"
	HealthPath      = "/health"
	StrategyPath    = "/api/strategy/optimize"
	HistoryPath     = "/api/history"
	StatsPath       = "/api/stats"

	defaultHistoryLimit = 100
)

// Source tells a consumer where a batch came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceMock     Source = "mock"
)

// Outcome is the terminal state of a prediction request.
type Outcome string

const (
	OutcomeSucceeded    Outcome = "succeeded"
	OutcomeTimedOut     Outcome = "timed_out"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeEmpty        Outcome = "empty"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeMocked       Outcome = "mocked"
)

// Result is a resolved prediction request. Predictions is never empty.
type Result struct {
	Predictions []models.Prediction
	Source      Source
	Outcome     Outcome
	Day         timebucket.DayKey
	Sportsbook  string
	GeneratedAt string
	Sequence    uint64
	RequestID   string
	Duration    time.Duration

	// Err records why live data was not served. Informational only.
	Err error
}

// IsLive reports whether the predictions came from the service.
func (r *Result) IsLive() bool {
	return r.Source == SourceLive
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	DefaultSportsbook string
	MockMode          bool

	// RetryAttempts is the number of retries after the first request.
	// Zero means a single outbound request.
	RetryAttempts int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration

	// RateLimit caps outbound requests per second. Zero disables limiting.
	RateLimit float64

	// Calendar resolves "today". Defaults to UTC.
	Calendar *timebucket.Calendar
	Logger   *logrus.Logger

	HTTPClient *http.Client
}

// Client retrieves predictions, strategy plans and service health.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	sportsbook string
	calendar   *timebucket.Calendar
	http       *transport
	log        *logger.RetrievalLogger

	mock     atomic.Bool
	sequence atomic.Uint64
}

// NewClient creates a client from options, filling defaults.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.DefaultSportsbook == "" {
		opts.DefaultSportsbook = DefaultSportsbook
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = 200 * time.Millisecond
	}
	if opts.RetryWaitMax < opts.RetryWaitMin {
		opts.RetryWaitMax = opts.RetryWaitMin
	}
	if opts.Calendar == nil {
		opts.Calendar = timebucket.NewCalendarIn(time.UTC)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		sportsbook: opts.DefaultSportsbook,
		calendar:   opts.Calendar,
		http: newTransport(transportConfig{
			Timeout:      opts.Timeout,
			MaxRetries:   opts.RetryAttempts,
			RetryWaitMin: opts.RetryWaitMin,
			RetryWaitMax: opts.RetryWaitMax,
			RateLimit:    opts.RateLimit,
			HTTPClient:   opts.HTTPClient,
		}),
		log: logger.NewRetrievalLogger(opts.Logger),
	}
	c.mock.Store(opts.MockMode)
	return c
}

// NewClientFromConfig creates a client from the prediction_service section.
func NewClientFromConfig(cfg *config.Config, cal *timebucket.Calendar, log *logrus.Logger) *Client {
	ps := cfg.PredictionService
	return NewClient(Options{
		BaseURL:           ps.BaseURL,
		Timeout:           cfg.RequestTimeout(),
		DefaultSportsbook: ps.DefaultSportsbook,
		MockMode:          ps.MockMode,
		RetryAttempts:     ps.RetryAttempts,
		RetryWaitMin:      time.Duration(ps.RetryWaitMinMillis) * time.Millisecond,
		RetryWaitMax:      time.Duration(ps.RetryWaitMaxMillis) * time.Millisecond,
		RateLimit:         ps.RateLimitPerSecond,
		Calendar:          cal,
		Logger:            log,
	})
}

// Calendar returns the calendar used to resolve "today".
func (c *Client) Calendar() *timebucket.Calendar {
	return c.calendar
}

// DefaultSportsbook returns the sportsbook used when a request names none.
func (c *Client) DefaultSportsbook() string {
	return c.sportsbook
}

// SetMockMode switches between the live service and the sample batch.
func (c *Client) SetMockMode(enabled bool) {
	c.mock.Store(enabled)
	if enabled {
		MockModeEnabled.Set(1)
	} else {
		MockModeEnabled.Set(0)
	}
	c.log.LogMockMode(enabled)
}

// MockMode reports whether requests are served from the sample batch.
func (c *Client) MockMode() bool {
	return c.mock.Load()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.close()
}

// GetPredictions fetches the games for a day and sportsbook. It never fails:
// on any problem the fixed sample batch is returned with Source fallback.
// An unknown day means today in the calendar's zone; an empty sportsbook
// means the default.
func (c *Client) GetPredictions(ctx context.Context, day timebucket.DayKey, sportsbook string) *Result {
	if !day.IsKnown() {
		day = c.calendar.Today()
	}
	if sportsbook == "" {
		sportsbook = c.sportsbook
	}

	res := &Result{
		Day:        day,
		Sportsbook: sportsbook,
		Sequence:   c.sequence.Add(1),
		RequestID:  uuid.NewString(),
	}
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		PredictionRequestsTotal.WithLabelValues(string(res.Outcome), string(res.Source)).Inc()
		PredictionRequestLatency.WithLabelValues(string(res.Outcome)).Observe(res.Duration.Seconds())
		PredictionsServedTotal.WithLabelValues(string(res.Source)).Add(float64(len(res.Predictions)))
		c.log.LogRequestOutcome(res.RequestID, res.Sequence, string(res.Outcome), string(res.Source),
			len(res.Predictions), res.Duration, res.Err)
	}()

	if c.MockMode() {
		res.Source = SourceMock
		res.Outcome = OutcomeMocked
		res.Predictions = FallbackPredictions()
		res.GeneratedAt = FallbackGeneratedAt
		return res
	}

	c.log.LogRequestStart(res.RequestID, res.Sequence, day.String(), sportsbook)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.endpoint(PredictionsPath, url.Values{
		"date":       {string(day)},
		"sportsbook": {sportsbook},
	})

	var batch models.PredictionBatch
	err := c.http.getJSON(ctx, endpoint, res.RequestID, &batch)
	if err == nil {
		if verr := batch.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedResponse, verr)
		}
	}
	if err != nil {
		outcome := classify(ctx, err)
		if outcome == OutcomeTimedOut {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, c.timeout, err)
		}
		c.fallback(res, outcome, err)
		return res
	}

	if batch.Count == 0 {
		c.fallback(res, OutcomeEmpty, ErrEmptyBatch)
		return res
	}

	res.Source = SourceLive
	res.Outcome = OutcomeSucceeded
	res.Predictions = batch.Predictions
	res.GeneratedAt = batch.GeneratedAt
	return res
}

func (c *Client) fallback(res *Result, outcome Outcome, err error) {
	res.Source = SourceFallback
	res.Outcome = outcome
	res.Err = err
	res.Predictions = FallbackPredictions()
	res.GeneratedAt = FallbackGeneratedAt
}

// classify maps a transport error to an outcome.
func classify(ctx context.Context, err error) Outcome {
	if errors.Is(err, ErrMalformedResponse) {
		return OutcomeMalformed
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return OutcomeTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimedOut
	}
	return OutcomeNetworkError
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
