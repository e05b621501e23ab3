package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/notiabet/internal/board"
	"github.com/yourusername/notiabet/internal/scheduler"
	"github.com/yourusername/notiabet/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysed board over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	boards := board.New(client, analysisOptions(), cfg.BoardCacheTTL(), appLog)

	srv := server.NewServer(server.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Commit:         GitCommit,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         appLog,
		Service:        client,
		Boards:         boards,
		Calendar:       calendar,
	})
	// Shutdown is driven by the signal handler below.
	if err := srv.Start(context.Background()); err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sportsbook := cfg.PredictionService.DefaultSportsbook
		sched = scheduler.NewScheduler(boards, calendar, cfg.RequestTimeout(), appLog)
		if err := sched.ScheduleRefresh(cfg.RefreshInterval(), sportsbook); err != nil {
			return err
		}
		if err := sched.ScheduleMidnightRollover(sportsbook); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		go sched.RefreshToday(sportsbook)
	}

	appLog.WithFields(logrus.Fields{
		"port":       cfg.Server.Port,
		"timezone":   calendar.Location().String(),
		"mock_mode":  client.MockMode(),
		"scheduler":  cfg.Scheduler.Enabled,
		"sportsbook": cfg.PredictionService.DefaultSportsbook,
	}).Info("NotiaBet server running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error during scheduler shutdown")
		}
	}
	if err := srv.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}

	appLog.Info("NotiaBet server shut down")
	return nil
}
