package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/collector"
	"StrategySentinel/internal/config"
	"StrategySentinel/internal/logger"
	"StrategySentinel/internal/metrics"
	"StrategySentinel/internal/recorder"
)

// loadConfig loads and validates the config at path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the configured logger. With keepStdout set, a logger
// configured for stdout writes to stderr instead.
func newLogger(cfg *config.Config, stderr io.Writer, keepStdout bool) zerolog.Logger {
	if keepStdout && (cfg.Log.Output == "" || cfg.Log.Output == "stdout") {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil || cfg.Log.Level == "" {
			level = zerolog.InfoLevel
		}
		return logger.NewWithWriter(cfg.Log, stderr, level)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		log = logger.NewWithWriter(cfg.Log, stderr, zerolog.InfoLevel)
		log.Warn().Err(err).Msg("falling back to default logger")
	}
	return log
}

func buildFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "coindesk":
		return collector.NewCoindeskFetcher(ds.BaseURL, ds.APIKey, ds.Market, cfg.Proxy), nil
	case "yahoo":
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	}
	return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
}

func buildCollector(cfg *config.Config, fetcher collector.Fetcher, log zerolog.Logger, m *metrics.Recorder) *collector.Collector {
	ds := cfg.DataSource
	market := ds.Market
	if ds.Provider != "coindesk" {
		market = fetcher.Name()
	}
	return collector.NewCollector(fetcher,
		collector.WithHistoryDays(ds.HistoryDays),
		collector.WithRateLimit(ds.RatePerSecond, 1),
		collector.WithRetry(ds.MaxRetries, collector.DefaultRetryBackoff),
		collector.WithMarket(market),
		collector.WithLogger(log.With().Str("component", "collector").Logger()),
		collector.WithMetrics(m),
	)
}

func buildRecorder(cfg *config.Config, log zerolog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// defaultRequest maps the simulation section of the config onto a request.
func defaultRequest(cfg *config.Config) analysis.Request {
	sim := cfg.Simulation
	return analysis.Request{
		DCA:        sim.DCA,
		Dip:        sim.Dip,
		Trend:      sim.Trend,
		MonteCarlo: sim.MonteCarlo,
	}
}
