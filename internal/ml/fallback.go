package ml

import "github.com/yourusername/notiabet/internal/models"

// FallbackGeneratedAt is the generated_at stamp of the fallback batch.
const FallbackGeneratedAt = "2025-01-15T12:00:00Z"

// FallbackPredictions returns the fixed sample batch served whenever live
// data is unavailable. It covers one game in each status and returns a fresh
// copy on every call, so callers may mutate it freely.
func FallbackPredictions() []models.Prediction {
	return []models.Prediction{
		{
			HomeTeam:           "Los Angeles Lakers",
			AwayTeam:           "Boston Celtics",
			PredictedWinner:    "Boston Celtics",
			HomeWinProbability: 42.5,
			AwayWinProbability: 57.5,
			WinnerConfidence:   57.5,
			UnderOverPick:      models.PickOver,
			UnderOverLine:      228.5,
			OUConfidence:       61.0,
			HomeOdds:           145,
			AwayOdds:           -165,
			StartTimeUTC:       strPtr("2025-01-16T03:30:00Z"),
			Status:             models.StatusScheduled,
			Timestamp:          FallbackGeneratedAt,
		},
		{
			HomeTeam:           "Denver Nuggets",
			AwayTeam:           "Golden State Warriors",
			PredictedWinner:    "Denver Nuggets",
			HomeWinProbability: 68.2,
			AwayWinProbability: 31.8,
			WinnerConfidence:   68.2,
			UnderOverPick:      models.PickUnder,
			UnderOverLine:      231.0,
			OUConfidence:       54.3,
			HomeOdds:           -210,
			AwayOdds:           175,
			StartTimeUTC:       strPtr("2025-01-15T02:00:00Z"),
			Status:             models.StatusFinal,
			HomeScore:          intPtr(118),
			AwayScore:          intPtr(109),
			ActualWinner:       strPtr("Denver Nuggets"),
			IsCorrect:          intPtr(1),
			Timestamp:          FallbackGeneratedAt,
		},
		{
			HomeTeam:           "Milwaukee Bucks",
			AwayTeam:           "Miami Heat",
			PredictedWinner:    "Milwaukee Bucks",
			HomeWinProbability: 61.4,
			AwayWinProbability: 38.6,
			WinnerConfidence:   61.4,
			UnderOverPick:      models.PickUnder,
			UnderOverLine:      219.5,
			OUConfidence:       52.1,
			HomeOdds:           -150,
			AwayOdds:           130,
			StartTimeUTC:       strPtr("2025-01-16T01:00:00Z"),
			Status:             models.StatusLive,
			HomeScore:          intPtr(64),
			AwayScore:          intPtr(58),
			Timestamp:          FallbackGeneratedAt,
		},
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
