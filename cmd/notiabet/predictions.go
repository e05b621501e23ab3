package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/notiabet/internal/analysis"
	"github.com/yourusername/notiabet/internal/ml"
	"github.com/yourusername/notiabet/internal/oddsmath"
)

func newPredictionsCmd() *cobra.Command {
	var (
		date       string
		sportsbook string
		mock       bool
		onlyDay    bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "predictions",
		Short: "Fetch and analyse the predictions for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}

			opts := analysisOptions()
			if format != "" {
				f, ok := oddsmath.ParseOddsFormat(format)
				if !ok {
					return fmt.Errorf("unknown odds format %q", format)
				}
				opts.Format = f
			}
			if mock {
				client.SetMockMode(true)
			}

			res := client.GetPredictions(context.Background(), day, sportsbook)
			games := analysis.AnalyzeAll(res.Predictions, opts)
			if onlyDay {
				games = analysis.ForDay(games, res.Day)
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"day":          res.Day,
					"sportsbook":   res.Sportsbook,
					"source":       res.Source,
					"outcome":      res.Outcome,
					"generated_at": res.GeneratedAt,
					"games":        games,
					"summary":      analysis.Summarize(games),
				})
			}
			return printBoard(res, games)
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to fetch (YYYY-MM-DD, default today in the reference zone)")
	cmd.Flags().StringVarP(&sportsbook, "sportsbook", "s", "", "Sportsbook to price against")
	cmd.Flags().BoolVar(&mock, "mock", false, "Serve the built-in sample games without calling the service")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Odds format: american or decimal")
	cmd.Flags().BoolVar(&onlyDay, "only-day", false, "Drop games whose start time falls on another day")

	return cmd
}

func printBoard(res *ml.Result, games []analysis.GameInsight) error {
	fmt.Printf("%s @ %s  source=%s", res.Day, res.Sportsbook, res.Source)
	if res.Source == ml.SourceFallback {
		fmt.Printf(" (%s)", res.Outcome)
	}
	fmt.Println()

	t := newTable(os.Stdout, "MATCHUP", "STATUS", "PICK", "CONF", "QUALITY", "HOME", "AWAY", "EDGE", "EV", "VERDICT", "RESULT")
	for _, g := range games {
		pick := g.Winner()
		t.row(
			g.Prediction.Matchup(),
			string(g.Prediction.Status),
			pick.Team,
			pct(g.Prediction.WinnerConfidence),
			string(g.WinnerQuality),
			g.Home.FormattedOdds,
			g.Away.FormattedOdds,
			signed(pick.Edge),
			signed(pick.ExpectedValue),
			string(pick.Verdict),
			string(g.Correctness),
		)
	}
	if err := t.flush(); err != nil {
		return err
	}

	s := analysis.Summarize(games)
	fmt.Printf("\n%d games, %d value picks, %d settled, hit rate %s\n",
		s.Games, s.ValuePicks, s.Correct+s.Incorrect, pct(s.HitRate))
	return nil
}
