package models

import "fmt"

// StrategyRequest is the body of POST /api/strategy/optimize.
type StrategyRequest struct {
	Bankroll float64 `json:"bankroll"`
}

// ProposedBet is one stake in a server-computed staking plan.
type ProposedBet struct {
	PredictionID string  `json:"prediction_id"`
	Date         string  `json:"date"`
	Match        string  `json:"match"`
	Selection    string  `json:"selection"`
	Odds         float64 `json:"odds"`
	StakeAmount  float64 `json:"stake_amount" validate:"gte=0"`
	Status       string  `json:"status"`
	IsRealBet    bool    `json:"is_real_bet"`
}

// RiskAnalysis is the advisor narrative attached to a plan.
type RiskAnalysis struct {
	Advisor        string `json:"advisor"`
	Message        string `json:"message"`
	ExposureRating string `json:"exposure_rating"`
}

// StrategyPlan is the Kelly-sized staking plan returned by the service.
type StrategyPlan struct {
	Strategy     string        `json:"strategy" validate:"required"`
	BankrollUsed float64       `json:"bankroll_used" validate:"gte=0"`
	ProposedBets []ProposedBet `json:"proposed_bets" validate:"dive"`
	RiskAnalysis RiskAnalysis  `json:"risk_analysis"`
}

// TotalStake sums the proposed stakes.
func (s *StrategyPlan) TotalStake() float64 {
	total := 0.0
	for _, b := range s.ProposedBets {
		total += b.StakeAmount
	}
	return total
}

// Validate checks the plan's field constraints.
func (s *StrategyPlan) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return nil
}
