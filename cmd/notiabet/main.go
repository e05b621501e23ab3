// Command notiabet retrieves NBA win-probability predictions and serves the
// analysed board over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/notiabet/internal/analysis"
	"github.com/yourusername/notiabet/internal/config"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/ml"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	jsonOutput bool

	cfg      *config.Config
	appLog   *logrus.Logger
	calendar *timebucket.Calendar
	client   *ml.Client
)

var rootCmd = &cobra.Command{
	Use:   "notiabet",
	Short: "NBA win-probability predictions with American odds analytics",
	Long: `notiabet fetches model predictions for NBA games from the prediction service,
prices them against sportsbook odds and serves the resulting board.`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override app.log_level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(
		newPredictionsCmd(),
		newDatesCmd(),
		newOddsCmd(),
		newHealthCmd(),
		newOptimizeCmd(),
		newHistoryCmd(),
		newStatsCmd(),
		newServeCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	calendar, err = timebucket.NewCalendar(cfg.Calendar.ReferenceTimezone,
		timebucket.WithLabels(timebucket.LabelsFor(cfg.Calendar.Locale)))
	if err != nil {
		return fmt.Errorf("failed to set up calendar: %w", err)
	}

	client = ml.NewClientFromConfig(cfg, calendar, appLog)
	return nil
}

func analysisOptions() analysis.Options {
	return analysis.OptionsFromConfig(cfg, calendar)
}

// parseDay reads an optional YYYY-MM-DD flag value.
func parseDay(raw string) (timebucket.DayKey, error) {
	if raw == "" {
		return timebucket.Unknown, nil
	}
	return timebucket.ParseDayKey(raw)
}
