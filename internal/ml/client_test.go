package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/timebucket"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func testCalendar() *timebucket.Calendar {
	return timebucket.NewCalendarIn(time.UTC, timebucket.WithClock(func() time.Time { return fixedNow }))
}

func newTestClient(t *testing.T, baseURL string, mutate ...func(*Options)) *Client {
	t.Helper()
	opts := Options{
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
		Calendar: testCalendar(),
		Logger:   logger.Discard(),
	}
	for _, m := range mutate {
		m(&opts)
	}
	c := NewClient(opts)
	t.Cleanup(c.Close)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}

func liveBatch() models.PredictionBatch {
	start := "2025-03-10T23:30:00Z"
	return models.PredictionBatch{
		Count:       2,
		GeneratedAt: "2025-03-10T14:00:00Z",
		Predictions: []models.Prediction{
			{
				HomeTeam: "New York Knicks", AwayTeam: "Chicago Bulls",
				PredictedWinner: "New York Knicks", HomeWinProbability: 64, AwayWinProbability: 36,
				WinnerConfidence: 64, HomeOdds: -180, AwayOdds: 155, StartTimeUTC: &start,
			},
			{
				HomeTeam: "Phoenix Suns", AwayTeam: "Dallas Mavericks",
				PredictedWinner: "Dallas Mavericks", HomeWinProbability: 45, AwayWinProbability: 55,
				WinnerConfidence: 55, HomeOdds: 110, AwayOdds: -130, Status: "live",
			},
		},
	}
}

func assertFallback(t *testing.T, res *Result, outcome Outcome) {
	t.Helper()
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, outcome, res.Outcome)
	assert.Equal(t, FallbackPredictions(), res.Predictions)
	assert.Error(t, res.Err)
}

func TestGetPredictions_Live(t *testing.T) {
	var gotQuery, gotRequestID, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(t, w, http.StatusOK, liveBatch())
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/")
	res := c.GetPredictions(context.Background(), "2025-03-10", "draftkings")

	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, OutcomeSucceeded, res.Outcome)
	assert.True(t, res.IsLive())
	assert.NoError(t, res.Err)
	require.Len(t, res.Predictions, 2)
	assert.Equal(t, "New York Knicks", res.Predictions[0].HomeTeam)
	assert.Equal(t, models.StatusScheduled, res.Predictions[0].Status)
	assert.Equal(t, models.StatusLive, res.Predictions[1].Status)
	assert.Equal(t, "2025-03-10T14:00:00Z", res.GeneratedAt)
	assert.Equal(t, timebucket.DayKey("2025-03-10"), res.Day)
	assert.Equal(t, "draftkings", res.Sportsbook)

	assert.Equal(t, PredictionsPath, gotPath)
	assert.Equal(t, "date=2025-03-10&sportsbook=draftkings", gotQuery)
	assert.Equal(t, res.RequestID, gotRequestID)
	assert.NotEmpty(t, gotRequestID)
}

func TestGetPredictions_Defaults(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, liveBatch())
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res := c.GetPredictions(context.Background(), timebucket.Unknown, "")

	assert.Equal(t, "date=2025-03-10&sportsbook=fanduel", gotQuery)
	assert.Equal(t, timebucket.DayKey("2025-03-10"), res.Day)
	assert.Equal(t, DefaultSportsbook, res.Sportsbook)
	assert.Equal(t, DefaultSportsbook, c.DefaultSportsbook())
}

func TestGetPredictions_EmptyBatchFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.PredictionBatch{Count: 0, GeneratedAt: "2025-03-10T14:00:00Z", Predictions: []models.Prediction{}})
	}))
	defer srv.Close()

	res := newTestClient(t, srv.URL).GetPredictions(context.Background(), "2025-03-10", "")

	assertFallback(t, res, OutcomeEmpty)
	assert.ErrorIs(t, res.Err, ErrEmptyBatch)
	require.Len(t, res.Predictions, 3)

	statuses := map[models.GameStatus]bool{}
	for _, p := range res.Predictions {
		statuses[p.Status] = true
	}
	assert.True(t, statuses[models.StatusScheduled])
	assert.True(t, statuses[models.StatusLive])
	assert.True(t, statuses[models.StatusFinal])
}

func TestGetPredictions_TimeoutFallsBackWithinBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(o *Options) { o.Timeout = 100 * time.Millisecond })

	start := time.Now()
	res := c.GetPredictions(context.Background(), "2025-03-10", "")
	elapsed := time.Since(start)

	assertFallback(t, res, OutcomeTimedOut)
	assert.ErrorIs(t, res.Err, ErrTimeout)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestGetPredictions_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	res := newTestClient(t, addr).GetPredictions(context.Background(), "2025-03-10", "")

	assertFallback(t, res, OutcomeNetworkError)
	assert.ErrorIs(t, res.Err, ErrServiceUnavailable)
}

func TestGetPredictions_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newTestClient(t, srv.URL).GetPredictions(context.Background(), "2025-03-10", "")

	assertFallback(t, res, OutcomeNetworkError)
	assert.ErrorIs(t, res.Err, ErrUnexpectedStatus)
}

func TestGetPredictions_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"count mismatch", `{"count": 3, "generated_at": "x", "predictions": []}`},
		{"not json", `<html>gateway</html>`},
		{"winner not playing", `{"count": 1, "generated_at": "x", "predictions": [{"home_team": "A", "away_team": "B", "predicted_winner": "C"}]}`},
		{"probability out of range", `{"count": 1, "generated_at": "x", "predictions": [{"home_team": "A", "away_team": "B", "predicted_winner": "A", "home_win_probability": 140}]}`},
		{"empty object", `{}`},
		{"null body", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			res := newTestClient(t, srv.URL).GetPredictions(context.Background(), "2025-03-10", "")

			assertFallback(t, res, OutcomeMalformed)
			assert.ErrorIs(t, res.Err, ErrMalformedResponse)
		})
	}
}

func TestGetPredictions_RetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, liveBatch())
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(o *Options) {
		o.RetryAttempts = 2
		o.RetryWaitMin = time.Millisecond
		o.RetryWaitMax = 5 * time.Millisecond
	})
	res := c.GetPredictions(context.Background(), "2025-03-10", "")

	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGetPredictions_SingleRequestByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := newTestClient(t, srv.URL).GetPredictions(context.Background(), "2025-03-10", "")

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetPredictions_MockModeSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, liveBatch())
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(o *Options) { o.MockMode = true })
	assert.True(t, c.MockMode())

	res := c.GetPredictions(context.Background(), "2025-03-10", "")
	assert.Equal(t, SourceMock, res.Source)
	assert.Equal(t, OutcomeMocked, res.Outcome)
	assert.Equal(t, FallbackPredictions(), res.Predictions)
	assert.NoError(t, res.Err)
	assert.Zero(t, hits.Load())

	c.SetMockMode(false)
	assert.False(t, c.MockMode())
	res = c.GetPredictions(context.Background(), "2025-03-10", "")
	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetPredictions_SequenceIsMonotonic(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid", func(o *Options) { o.MockMode = true })

	var wg sync.WaitGroup
	seqs := make(chan uint64, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seqs <- c.GetPredictions(context.Background(), "2025-03-10", "").Sequence
		}()
	}
	wg.Wait()
	close(seqs)

	seen := map[uint64]bool{}
	for s := range seqs {
		assert.False(t, seen[s], "duplicate sequence %d", s)
		seen[s] = true
	}
	assert.Len(t, seen, 20)
	assert.Equal(t, uint64(21), c.GetPredictions(context.Background(), "", "").Sequence)
}

func TestFallbackPredictions_FreshCopy(t *testing.T) {
	first := FallbackPredictions()
	first[0].HomeTeam = "changed"
	*first[1].HomeScore = 0

	second := FallbackPredictions()
	assert.Equal(t, "Los Angeles Lakers", second[0].HomeTeam)
	assert.Equal(t, 118, *second[1].HomeScore)

	for i := range second {
		assert.NoError(t, second[i].Validate())
	}
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, HealthPath, r.URL.Path)
			writeJSON(t, w, http.StatusOK, map[string]string{
				"status": "ok", "model": "XGBoost", "version": "2.0.0", "timestamp": "2025-03-10T15:00:00Z",
			})
		}))
		defer srv.Close()

		health := newTestClient(t, srv.URL).CheckHealth(context.Background())
		require.NotNil(t, health)
		assert.True(t, health.OK())
		assert.Equal(t, "XGBoost", health.Model)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		assert.Nil(t, newTestClient(t, srv.URL).CheckHealth(context.Background()))
	})

	t.Run("missing status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]string{"model": "XGBoost"})
		}))
		defer srv.Close()

		assert.Nil(t, newTestClient(t, srv.URL).CheckHealth(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		assert.Nil(t, newTestClient(t, addr).CheckHealth(context.Background()))
	})
}

func TestOptimizeStrategy(t *testing.T) {
	plan := models.StrategyPlan{
		Strategy:     "Kelly Criterion (Conservative 1/4)",
		BankrollUsed: 1000,
		ProposedBets: []models.ProposedBet{
			{Match: "Chicago Bulls @ New York Knicks", Selection: "New York Knicks", Odds: 1.56, StakeAmount: 25.5},
			{Match: "Dallas Mavericks @ Phoenix Suns", Selection: "Dallas Mavericks", Odds: 1.77, StakeAmount: 12},
		},
		RiskAnalysis: models.RiskAnalysis{Advisor: "finance_engine", ExposureRating: "LOW"},
	}

	t.Run("posts bankroll", func(t *testing.T) {
		var got models.StrategyRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, StrategyPath, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(t, w, http.StatusOK, plan)
		}))
		defer srv.Close()

		res := newTestClient(t, srv.URL).OptimizeStrategy(context.Background(), 1000)
		require.NotNil(t, res)
		assert.Equal(t, 1000.0, got.Bankroll)
		assert.Len(t, res.ProposedBets, 2)
		assert.InDelta(t, 37.5, res.TotalStake(), 1e-9)
	})

	t.Run("failure yields nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.Nil(t, newTestClient(t, srv.URL).OptimizeStrategy(context.Background(), 1000))
	})

	t.Run("invalid bankroll never leaves the process", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeJSON(t, w, http.StatusOK, plan)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		for _, bankroll := range []float64{0, -50} {
			assert.Nil(t, c.OptimizeStrategy(context.Background(), bankroll))
		}
		assert.Zero(t, hits.Load())
	})
}

func TestGetHistory(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HistoryPath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		correct := 1
		writeJSON(t, w, http.StatusOK, models.HistoryPage{
			Count: 1,
			Records: []models.HistoryRecord{
				{ID: 7, GameDate: "2025-03-09", HomeTeam: "A", AwayTeam: "B", PredictedWinner: "A", IsCorrect: &correct},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	page := c.GetHistory(context.Background(), 0, timebucket.Unknown)
	require.NotNil(t, page)
	assert.Equal(t, "limit=100", gotQuery)
	assert.Equal(t, int64(7), page.Records[0].ID)

	page = c.GetHistory(context.Background(), 20, "2025-03-09")
	require.NotNil(t, page)
	assert.Equal(t, "game_date=2025-03-09&limit=20", gotQuery)
}

func TestGetHistory_CountMismatchYieldsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.HistoryPage{Count: 4})
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(t, srv.URL).GetHistory(context.Background(), 10, timebucket.Unknown))
}

func TestGetStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != StatsPath {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, http.StatusOK, models.PredictionStats{
			TotalPredictions: 40, CompletedGames: 30, CorrectPredictions: 18, WinRate: 60, PendingGames: 10,
		})
	}))
	defer srv.Close()

	stats := newTestClient(t, srv.URL).GetStats(context.Background())
	require.NotNil(t, stats)
	assert.Equal(t, 60.0, stats.WinRate)

	assert.Nil(t, newTestClient(t, srv.URL+"/missing").GetStats(context.Background()))
}

func TestNewClient_DoesNotMutateSharedHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, liveBatch())
	}))
	defer srv.Close()

	shared := &http.Client{}
	c := newTestClient(t, srv.URL, func(o *Options) { o.HTTPClient = shared })

	res := c.GetPredictions(context.Background(), "2025-03-10", "")
	assert.Equal(t, SourceLive, res.Source)

	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, c.http.client.HTTPClient)
	assert.Equal(t, 2*time.Second, c.http.client.HTTPClient.Timeout)
}
