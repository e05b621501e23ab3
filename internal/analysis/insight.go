// Package analysis turns raw predictions into priced, render-ready insights.
package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/notiabet/internal/config"
	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/oddsmath"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// Correctness is the settled state of a winner pick.
type Correctness string

const (
	CorrectnessCorrect   Correctness = "correct"
	CorrectnessIncorrect Correctness = "incorrect"
	CorrectnessPending   Correctness = "pending"
)

// Options controls how predictions are priced and rendered.
type Options struct {
	ValueThreshold float64
	Format         oddsmath.OddsFormat
	Calendar       *timebucket.Calendar
}

// DefaultOptions prices against DefaultValueThreshold in American format, UTC.
func DefaultOptions() Options {
	return Options{
		ValueThreshold: oddsmath.DefaultValueThreshold,
		Format:         oddsmath.FormatAmerican,
		Calendar:       timebucket.NewCalendarIn(time.UTC),
	}
}

// OptionsFromConfig maps the analytics section onto Options.
func OptionsFromConfig(cfg *config.Config, cal *timebucket.Calendar) Options {
	format, ok := oddsmath.ParseOddsFormat(cfg.Analytics.OddsFormat)
	if !ok {
		format = oddsmath.FormatAmerican
	}
	return Options{
		ValueThreshold: cfg.Analytics.ValueEdgeThreshold,
		Format:         format,
		Calendar:       cal,
	}
}

// SideInsight prices one team of a game.
type SideInsight struct {
	Team               string           `json:"team"`
	ModelProbability   float64          `json:"model_probability"`
	Odds               int              `json:"odds"`
	FormattedOdds      string           `json:"formatted_odds"`
	ImpliedProbability float64          `json:"implied_probability"`
	Edge               float64          `json:"edge"`
	ExpectedValue      float64          `json:"expected_value"`
	Verdict            oddsmath.Verdict `json:"verdict"`
	Pick               bool             `json:"pick"`
}

// GameInsight is a prediction with every derived figure attached.
type GameInsight struct {
	Prediction    models.Prediction `json:"prediction"`
	Day           timebucket.DayKey `json:"day"`
	Home          SideInsight       `json:"home"`
	Away          SideInsight       `json:"away"`
	WinnerQuality oddsmath.Quality  `json:"winner_quality"`
	TotalQuality  oddsmath.Quality  `json:"total_quality,omitempty"`
	ValuePick     bool              `json:"value_pick"`
	Correctness   Correctness       `json:"correctness"`
}

// Winner returns the side of the predicted winner.
func (g *GameInsight) Winner() SideInsight {
	if g.Away.Pick {
		return g.Away
	}
	return g.Home
}

// Analyze prices both sides of p and derives its day and settlement.
func Analyze(p models.Prediction, opts Options) GameInsight {
	p.Normalize()

	insight := GameInsight{
		Prediction:    p,
		Day:           dayOf(p, opts.Calendar),
		Home:          buildSide(p.HomeTeam, p.HomeWinProbability, p.HomeOdds, p.PredictedWinner == p.HomeTeam, opts),
		Away:          buildSide(p.AwayTeam, p.AwayWinProbability, p.AwayOdds, p.PredictedWinner == p.AwayTeam, opts),
		WinnerQuality: oddsmath.BetQuality(p.WinnerConfidence),
		Correctness:   correctness(p),
	}
	if p.UnderOverPick != "" {
		insight.TotalQuality = oddsmath.BetQuality(p.OUConfidence)
	}
	insight.ValuePick = insight.Winner().Verdict == oddsmath.VerdictValue

	return insight
}

// AnalyzeAll analyzes a batch, preserving order.
func AnalyzeAll(predictions []models.Prediction, opts Options) []GameInsight {
	insights := make([]GameInsight, 0, len(predictions))
	for _, p := range predictions {
		insights = append(insights, Analyze(p, opts))
	}
	return insights
}

// ForDay keeps the insights whose start time falls on day. Games without a
// known start time never match.
func ForDay(insights []GameInsight, day timebucket.DayKey) []GameInsight {
	var out []GameInsight
	for _, g := range insights {
		if g.Day.Matches(day) {
			out = append(out, g)
		}
	}
	return out
}

func buildSide(team string, probability float64, odds int, pick bool, opts Options) SideInsight {
	side := SideInsight{
		Team:             team,
		ModelProbability: probability,
		Odds:             odds,
		FormattedOdds:    oddsmath.FormatOdds(odds, opts.Format),
		ExpectedValue:    oddsmath.ExpectedValue(probability, odds),
		Pick:             pick,
	}

	edge, verdict := oddsmath.Assess(probability, odds, opts.ValueThreshold)
	side.Edge = round2(edge)
	side.Verdict = verdict
	if implied, ok := oddsmath.ImpliedProbabilityOK(odds); ok {
		side.ImpliedProbability = round2(implied)
	}

	return side
}

func dayOf(p models.Prediction, cal *timebucket.Calendar) timebucket.DayKey {
	if p.StartTimeUTC == nil || cal == nil {
		return timebucket.Unknown
	}
	return cal.DayKeyFromInstant(*p.StartTimeUTC)
}

// correctness prefers the service's is_correct flag, then the recorded
// winner, then the final score. Unfinished games are pending.
func correctness(p models.Prediction) Correctness {
	if p.IsCorrect != nil {
		if *p.IsCorrect == 1 {
			return CorrectnessCorrect
		}
		return CorrectnessIncorrect
	}
	if p.Status != models.StatusFinal {
		return CorrectnessPending
	}

	winner := ""
	switch {
	case p.ActualWinner != nil && *p.ActualWinner != "":
		winner = *p.ActualWinner
	case p.HasScore() && *p.HomeScore > *p.AwayScore:
		winner = p.HomeTeam
	case p.HasScore() && *p.AwayScore > *p.HomeScore:
		winner = p.AwayTeam
	}

	switch winner {
	case "":
		return CorrectnessPending
	case p.PredictedWinner:
		return CorrectnessCorrect
	default:
		return CorrectnessIncorrect
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
