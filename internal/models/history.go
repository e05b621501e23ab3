package models

import "fmt"

// HistoryRecord is a stored prediction with its audited result.
type HistoryRecord struct {
	ID                 int64    `json:"id"`
	GameDate           string   `json:"game_date"`
	HomeTeam           string   `json:"home_team"`
	AwayTeam           string   `json:"away_team"`
	PredictedWinner    string   `json:"predicted_winner"`
	HomeWinProbability *float64 `json:"home_win_probability"`
	AwayWinProbability *float64 `json:"away_win_probability"`
	Confidence         float64  `json:"confidence"`
	UnderOverPick      *string  `json:"under_over_prediction"`
	UnderOverLine      *float64 `json:"under_over_line"`
	OUConfidence       *float64 `json:"ou_confidence"`
	HomeOdds           int      `json:"home_odds"`
	AwayOdds           int      `json:"away_odds"`
	Result             *string  `json:"result"`
	ActualWinner       *string  `json:"actual_winner"`
	IsCorrect          *int     `json:"is_correct"`
	CreatedAt          string   `json:"created_at"`
	Status             *string  `json:"status"`
	HomeScore          *int     `json:"home_score"`
	AwayScore          *int     `json:"away_score"`
}

// HistoryPage is the /api/history payload.
type HistoryPage struct {
	Count       int             `json:"count"`
	Records     []HistoryRecord `json:"records"`
	GeneratedAt string          `json:"generated_at"`
}

// Validate checks Count against the payload.
func (h *HistoryPage) Validate() error {
	if h.Count != len(h.Records) {
		return fmt.Errorf("%w: count %d, got %d records", ErrCountMismatch, h.Count, len(h.Records))
	}
	return nil
}

// PredictionStats is the /api/stats payload.
type PredictionStats struct {
	TotalPredictions   int     `json:"total_predictions"`
	CompletedGames     int     `json:"completed_games"`
	CorrectPredictions int     `json:"correct_predictions"`
	WinRate            float64 `json:"win_rate"`
	PendingGames       int     `json:"pending_games"`
}
