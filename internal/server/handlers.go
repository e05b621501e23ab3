package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/notiabet/internal/timebucket"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	MockMode  *bool  `json:"mock_mode,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MockModeRequest toggles mock mode.
type MockModeRequest struct {
	Enabled bool `json:"enabled"`
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	}
	if s.cfg.Service != nil {
		mock := s.cfg.Service.MockMode()
		response.MockMode = &mock
	}

	respondJSON(w, http.StatusOK, response)
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

// handleReady handles the /ready endpoint - checks the prediction service.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if s.cfg.Service == nil {
		allHealthy = false
		checks["prediction_service"] = "not_configured"
	} else if health := s.cfg.Service.CheckHealth(r.Context()); health == nil {
		allHealthy = false
		checks["prediction_service"] = "unreachable"
	} else if !health.OK() {
		allHealthy = false
		checks["prediction_service"] = health.Status
	} else {
		checks["prediction_service"] = "ok"
		checks["model"] = health.Model
	}

	response := ReadyResponse{
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if allHealthy {
		response.Status = "ok"
		respondJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	respondJSON(w, http.StatusServiceUnavailable, response)
}

// handleBoard serves the analysed board.
// Query params: date (YYYY-MM-DD, default today), sportsbook,
// only_day (true drops games starting on another day)
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDayParam(w, r, "date")
	if !ok {
		return
	}
	if s.cfg.Boards == nil {
		respondError(w, http.StatusServiceUnavailable, "board not configured")
		return
	}

	snap := s.cfg.Boards.Get(r.Context(), day, r.URL.Query().Get("sportsbook"))
	if parseBoolParam(r, "only_day") {
		snap = snap.OnlyDay()
	}
	respondJSON(w, http.StatusOK, snap)
}

// handleCurrentBoard serves the most recently loaded board.
func (s *Server) handleCurrentBoard(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Boards == nil {
		respondError(w, http.StatusServiceUnavailable, "board not configured")
		return
	}
	snap := s.cfg.Boards.Current()
	if snap == nil {
		respondError(w, http.StatusNotFound, "no board loaded yet")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// handleDates serves the navigation strip.
// Query params: selected (YYYY-MM-DD, default today)
func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	selected, ok := parseDayParam(w, r, "selected")
	if !ok {
		return
	}
	if !selected.IsKnown() {
		selected = s.cfg.Calendar.Today()
	}

	cal := s.cfg.Calendar
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"today":    cal.Today(),
		"selected": selected,
		"is_today": cal.IsToday(selected),
		"prev":     cal.Shift(selected, -1),
		"next":     cal.Shift(selected, 1),
		"days":     cal.DateStrip(selected),
	})
}

// handleOptimize proxies a staking plan request.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bankroll float64 `json:"bankroll"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Bankroll <= 0 || math.IsInf(req.Bankroll, 0) {
		respondError(w, http.StatusBadRequest, "bankroll must be a positive amount")
		return
	}

	plan := s.cfg.Service.OptimizeStrategy(r.Context(), req.Bankroll)
	if plan == nil {
		respondError(w, http.StatusBadGateway, "strategy optimization unavailable")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// handleHistory proxies audited past predictions.
// Query params: limit (default 100), date
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDayParam(w, r, "date")
	if !ok {
		return
	}

	page := s.cfg.Service.GetHistory(r.Context(), parseIntParam(r, "limit", 100), day)
	if page == nil {
		respondError(w, http.StatusBadGateway, "history unavailable")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// handleStats proxies aggregate accuracy figures.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cfg.Service.GetStats(r.Context())
	if stats == nil {
		respondError(w, http.StatusBadGateway, "stats unavailable")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetMockMode(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MockModeRequest{Enabled: s.cfg.Service.MockMode()})
}

func (s *Server) handleSetMockMode(w http.ResponseWriter, r *http.Request) {
	var req MockModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	previous := s.cfg.Service.MockMode()
	s.cfg.Service.SetMockMode(req.Enabled)
	// Cached boards were built under the previous mode.
	if previous != req.Enabled && s.cfg.Boards != nil {
		s.cfg.Boards.Invalidate()
	}
	respondJSON(w, http.StatusOK, MockModeRequest{Enabled: s.cfg.Service.MockMode()})
}

// parseDayParam reads an optional day key. It writes a 400 and returns false
// when the value is present but malformed.
func parseDayParam(w http.ResponseWriter, r *http.Request, param string) (timebucket.DayKey, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return timebucket.Unknown, true
	}
	day, err := timebucket.ParseDayKey(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, param+" must be YYYY-MM-DD")
		return timebucket.Unknown, false
	}
	return day, true
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseBoolParam(r *http.Request, param string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(param))
	return err == nil && value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
