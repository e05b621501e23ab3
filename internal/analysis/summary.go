package analysis

import (
	"github.com/yourusername/notiabet/internal/models"
	"github.com/yourusername/notiabet/internal/oddsmath"
)

// Summary aggregates a board of insights.
type Summary struct {
	Games      int                      `json:"games"`
	ValuePicks int                      `json:"value_picks"`
	Scheduled  int                      `json:"scheduled"`
	Live       int                      `json:"live"`
	Finished   int                      `json:"finished"`
	Correct    int                      `json:"correct"`
	Incorrect  int                      `json:"incorrect"`
	HitRate    float64                  `json:"hit_rate"`
	ByQuality  map[oddsmath.Quality]int `json:"by_quality"`
}

// Summarize counts statuses, value picks and settled results. HitRate is the
// percentage of settled picks that were correct, 0 when none are settled.
func Summarize(insights []GameInsight) Summary {
	s := Summary{
		Games:     len(insights),
		ByQuality: make(map[oddsmath.Quality]int),
	}

	for _, g := range insights {
		switch g.Prediction.Status {
		case models.StatusLive:
			s.Live++
		case models.StatusFinal:
			s.Finished++
		default:
			s.Scheduled++
		}

		if g.ValuePick {
			s.ValuePicks++
		}
		s.ByQuality[g.WinnerQuality]++

		switch g.Correctness {
		case CorrectnessCorrect:
			s.Correct++
		case CorrectnessIncorrect:
			s.Incorrect++
		}
	}

	if settled := s.Correct + s.Incorrect; settled > 0 {
		s.HitRate = round2(float64(s.Correct) / float64(settled) * 100.0)
	}

	return s
}
