package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/metrics"
	"StrategySentinel/internal/notifier"
	"StrategySentinel/internal/scheduler"
)

func newRunCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler, Telegram command polling and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd, runOnStart || os.Getenv("RUN_ON_START") == "true")
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run the analysis task once at startup")
	return cmd
}

func runDaemon(cmd *cobra.Command, runOnStart bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr(), false)
	log.Info().Msg("StrategySentinel starting")

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("source", fetcher.Name()).Strs("symbols", cfg.Symbols).Msg("data source ready")

	m := metrics.New()
	col := buildCollector(cfg, fetcher, log, m)
	svc := analysis.NewService(log.With().Str("component", "analysis").Logger(), m)
	rec := buildRecorder(cfg, log)
	defer rec.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy,
			log.With().Str("component", "telegram").Logger())
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, reports are only logged and recorded")
	}

	sched := scheduler.NewScheduler(ctx, col, svc, sender, rec, cfg.Symbols, defaultRequest(cfg),
		log.With().Str("component", "scheduler").Logger())
	if err := sched.Register(cfg.Schedule.AnalysisCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	var srv *http.Server
	if cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics endpoint listening")
	}

	if runOnStart {
		log.Info().Msg("run-on-start enabled, executing analysis now")
		go sched.RunNow()
	}

	log.Info().Msg("StrategySentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
	return nil
}
