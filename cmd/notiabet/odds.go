package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/notiabet/internal/oddsmath"
)

func newOddsCmd() *cobra.Command {
	var probability float64

	cmd := &cobra.Command{
		Use:   "odds <price>",
		Short: "Convert a price and optionally price it against a model probability",
		Long: `Convert a price between American and decimal odds.

A price containing a decimal point (1.91, 2.50) is read as decimal odds;
anything else (-110, +150) as American odds.`,
		Example: "  notiabet odds -- -110 --prob 56\n  notiabet odds 2.50",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			american, err := parseOddsInput(args[0])
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"american":            oddsmath.FormatOdds(american, oddsmath.FormatAmerican),
				"decimal":             oddsmath.FormatOdds(american, oddsmath.FormatDecimal),
				"implied_probability": oddsmath.ImpliedProbability(american),
			}
			if cmd.Flags().Changed("prob") {
				edge, verdict := oddsmath.Assess(probability, american, analysisOptions().ValueThreshold)
				out["model_probability"] = probability
				out["edge"] = edge
				out["expected_value"] = oddsmath.ExpectedValue(probability, american)
				out["verdict"] = verdict
			}

			if jsonOutput {
				return printJSON(out)
			}
			fmt.Printf("american=%s decimal=%s implied=%s\n",
				out["american"], out["decimal"], pct(oddsmath.ImpliedProbability(american)))
			if v, ok := out["verdict"]; ok {
				fmt.Printf("model=%s edge=%s ev=%s verdict=%s\n",
					pct(probability), signed(out["edge"].(float64)), signed(out["expected_value"].(float64)), v)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&probability, "prob", 0, "Model win probability in percent")
	return cmd
}

// parseOddsInput reads an American (-110, +150) or decimal (1.91) price and
// returns it as American odds.
func parseOddsInput(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ".") {
		dec, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal odds %q: %w", raw, err)
		}
		american := oddsmath.DecimalToAmerican(dec)
		if american == 0 {
			return 0, fmt.Errorf("decimal odds must be greater than 1.00, got %q", raw)
		}
		return american, nil
	}

	american, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid American odds %q: %w", raw, err)
	}
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("American odds must be at most -100 or at least +100, got %q", raw)
	}
	return american, nil
}
