package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/notiabet/internal/oddsmath"
)

var errServiceUnavailable = errors.New("prediction service unavailable")

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the prediction service",
		RunE: func(cmd *cobra.Command, args []string) error {
			health := client.CheckHealth(context.Background())
			if health == nil {
				return errServiceUnavailable
			}
			if jsonOutput {
				return printJSON(health)
			}
			fmt.Printf("status=%s model=%s version=%s timestamp=%s\n",
				health.Status, health.Model, health.Version, health.Timestamp)
			if !health.OK() {
				return fmt.Errorf("prediction service reports %q", health.Status)
			}
			return nil
		},
	}
}

func newOptimizeCmd() *cobra.Command {
	var bankroll float64

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Request a Kelly staking plan for a bankroll",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bankroll <= 0 {
				return fmt.Errorf("--bankroll must be positive")
			}
			plan := client.OptimizeStrategy(context.Background(), bankroll)
			if plan == nil {
				return errServiceUnavailable
			}
			if jsonOutput {
				return printJSON(plan)
			}

			fmt.Printf("%s, bankroll %.2f\n", plan.Strategy, plan.BankrollUsed)
			t := newTable(os.Stdout, "DATE", "MATCH", "SELECTION", "ODDS", "STAKE")
			for _, b := range plan.ProposedBets {
				t.row(b.Date, b.Match, b.Selection, strconv.FormatFloat(b.Odds, 'f', 2, 64), strconv.FormatFloat(b.StakeAmount, 'f', 2, 64))
			}
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Printf("\ntotal stake %.2f, exposure %s\n%s\n",
				plan.TotalStake(), plan.RiskAnalysis.ExposureRating, plan.RiskAnalysis.Message)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&bankroll, "bankroll", "b", 0, "Bankroll to size stakes against")
	_ = cmd.MarkFlagRequired("bankroll")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		date  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List audited past predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			page := client.GetHistory(context.Background(), limit, day)
			if page == nil {
				return errServiceUnavailable
			}
			if jsonOutput {
				return printJSON(page)
			}

			t := newTable(os.Stdout, "DATE", "MATCHUP", "PICK", "CONF", "ODDS", "RESULT")
			for _, r := range page.Records {
				odds := r.HomeOdds
				if r.PredictedWinner == r.AwayTeam {
					odds = r.AwayOdds
				}
				result := "pending"
				if r.IsCorrect != nil {
					result = map[int]string{0: "incorrect", 1: "correct"}[*r.IsCorrect]
				}
				t.row(r.GameDate, r.HomeTeam+" vs "+r.AwayTeam, r.PredictedWinner,
					pct(r.Confidence), oddsmath.FormatOdds(odds, oddsmath.FormatAmerican), result)
			}
			return t.flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Maximum number of records")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Only this game date (YYYY-MM-DD)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate prediction accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := client.GetStats(context.Background())
			if stats == nil {
				return errServiceUnavailable
			}
			if jsonOutput {
				return printJSON(stats)
			}
			fmt.Printf("predictions %d, completed %d, correct %d, pending %d, win rate %s\n",
				stats.TotalPredictions, stats.CompletedGames, stats.CorrectPredictions,
				stats.PendingGames, pct(stats.WinRate))
			return nil
		},
	}
}
