package models

import (
	"fmt"
	"strings"
)

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled GameStatus = "SCHEDULED"
	StatusLive      GameStatus = "LIVE"
	StatusFinal     GameStatus = "FINAL"
)

// Rank orders statuses along SCHEDULED → LIVE → FINAL. Unknown values rank -1.
func (s GameStatus) Rank() int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusLive:
		return 1
	case StatusFinal:
		return 2
	default:
		return -1
	}
}

// Started reports whether scores are meaningful for this status.
func (s GameStatus) Started() bool {
	return s == StatusLive || s == StatusFinal
}

// TotalPick is the over/under side the model picked.
type TotalPick string

const (
	PickUnder TotalPick = "UNDER"
	PickOver  TotalPick = "OVER"
)

// Prediction is one game as served by the prediction service
type Prediction struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required,nefield=HomeTeam"`

	PredictedWinner    string    `json:"predicted_winner" validate:"required"`
	HomeWinProbability float64   `json:"home_win_probability" validate:"gte=0,lte=100"`
	AwayWinProbability float64   `json:"away_win_probability" validate:"gte=0,lte=100"`
	WinnerConfidence   float64   `json:"winner_confidence" validate:"gte=0,lte=100"`
	UnderOverPick      TotalPick `json:"under_over_prediction" validate:"omitempty,oneof=UNDER OVER"`
	UnderOverLine      float64   `json:"under_over_line"`
	OUConfidence       float64   `json:"ou_confidence" validate:"gte=0,lte=100"`

	// American odds; 0 means no market.
	HomeOdds int `json:"home_odds"`
	AwayOdds int `json:"away_odds"`

	StartTimeUTC *string    `json:"start_time_utc"`
	Status       GameStatus `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE FINAL"`
	HomeScore    *int       `json:"home_score,omitempty" validate:"omitempty,gte=0"`
	AwayScore    *int       `json:"away_score,omitempty" validate:"omitempty,gte=0"`
	ActualWinner *string    `json:"actual_winner,omitempty"`
	IsCorrect    *int       `json:"is_correct,omitempty" validate:"omitempty,oneof=0 1"`
	Timestamp    string     `json:"timestamp,omitempty"`
}

// Normalize fills wire defaults in place. Status defaults to SCHEDULED.
func (p *Prediction) Normalize() {
	p.Status = GameStatus(strings.ToUpper(strings.TrimSpace(string(p.Status))))
	if p.Status == "" {
		p.Status = StatusScheduled
	}
	p.UnderOverPick = TotalPick(strings.ToUpper(strings.TrimSpace(string(p.UnderOverPick))))
}

// Validate checks field constraints and the cross-field invariants.
func (p *Prediction) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s vs %s: %v", ErrInvalidPrediction, p.HomeTeam, p.AwayTeam, err)
	}
	if p.PredictedWinner != p.HomeTeam && p.PredictedWinner != p.AwayTeam {
		return fmt.Errorf("%w: %q is not playing in %s vs %s", ErrUnknownWinner, p.PredictedWinner, p.HomeTeam, p.AwayTeam)
	}
	if p.ActualWinner != nil && *p.ActualWinner != "" && *p.ActualWinner != p.HomeTeam && *p.ActualWinner != p.AwayTeam {
		return fmt.Errorf("%w: actual winner %q", ErrUnknownWinner, *p.ActualWinner)
	}
	return nil
}

// Matchup returns "Home vs Away".
func (p *Prediction) Matchup() string {
	return p.HomeTeam + " vs " + p.AwayTeam
}

// HasScore reports whether both scores are present and meaningful.
func (p *Prediction) HasScore() bool {
	return p.Status.Started() && p.HomeScore != nil && p.AwayScore != nil
}

// WinnerProbability is the model probability of the predicted winner.
func (p *Prediction) WinnerProbability() float64 {
	if p.PredictedWinner == p.AwayTeam {
		return p.AwayWinProbability
	}
	return p.HomeWinProbability
}

// WinnerOdds is the price on the predicted winner.
func (p *Prediction) WinnerOdds() int {
	if p.PredictedWinner == p.AwayTeam {
		return p.AwayOdds
	}
	return p.HomeOdds
}

// PredictionBatch is the /api/predictions payload.
type PredictionBatch struct {
	Count       int          `json:"count"`
	GeneratedAt string       `json:"generated_at"`
	Predictions []Prediction `json:"predictions"`
}

// Validate normalizes every prediction and rejects the batch on the first
// violation. Count must equal the number of predictions and generated_at
// must be set.
func (b *PredictionBatch) Validate() error {
	if b.Count != len(b.Predictions) {
		return fmt.Errorf("%w: count %d, got %d predictions", ErrCountMismatch, b.Count, len(b.Predictions))
	}
	if strings.TrimSpace(b.GeneratedAt) == "" {
		return ErrMissingGenerated
	}
	for i := range b.Predictions {
		b.Predictions[i].Normalize()
		if err := b.Predictions[i].Validate(); err != nil {
			return fmt.Errorf("prediction %d: %w", i, err)
		}
	}
	return nil
}
