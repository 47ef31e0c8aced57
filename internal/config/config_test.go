package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "coindesk", cfg.DataSource.Provider)
	assert.Equal(t, "cadli", cfg.DataSource.Market)
	assert.Equal(t, 365, cfg.DataSource.HistoryDays)
	assert.Equal(t, []string{"BTC", "ETH"}, cfg.Symbols)
	assert.Equal(t, "0 0 8 * * *", cfg.Schedule.AnalysisCron)
	assert.Equal(t, ":9090", cfg.Metrics.ListenAddr)
	assert.Equal(t, "info", cfg.Log.Level)

	sim := cfg.Simulation
	assert.Equal(t, 100.0, sim.DCA.ContributionUSD)
	assert.Equal(t, 7.0, sim.DCA.IntervalDays)
	assert.Equal(t, 180.0, sim.DCA.DurationDays)
	assert.Equal(t, 1000.0, sim.Dip.TotalBudget)
	assert.Equal(t, 0.1, sim.Dip.DipThreshold)
	assert.Equal(t, 30, sim.Dip.LookbackWindowDays)
	assert.Equal(t, 90, sim.Dip.ProjectionWindowDays)
	assert.Equal(t, 10000.0, sim.Trend.Capital)
	assert.Equal(t, 20, sim.Trend.ShortWindow)
	assert.Equal(t, 50, sim.Trend.LongWindow)
	assert.Equal(t, 6, sim.MonteCarlo.HorizonMonths)
	assert.Equal(t, 1, sim.MonteCarlo.StepDays)
	assert.Nil(t, sim.MonteCarlo.Seed)

	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
symbols: [sol, " ada "]
data_source:
  provider: mock
  history_days: 120
simulation:
  dca:
    contribution_usd: 50
  trend:
    short_window: 10
    long_window: 30
  monte_carlo:
    horizon_months: 5
    seed: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"SOL", "ADA"}, cfg.Symbols)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, 120, cfg.DataSource.HistoryDays)
	assert.Equal(t, 50.0, cfg.Simulation.DCA.ContributionUSD)
	assert.Equal(t, 7.0, cfg.Simulation.DCA.IntervalDays)
	assert.Equal(t, 10, cfg.Simulation.Trend.ShortWindow)
	// Unsupported horizon snaps to the default.
	assert.Equal(t, 6, cfg.Simulation.MonteCarlo.HorizonMonths)
	require.NotNil(t, cfg.Simulation.MonteCarlo.Seed)
	assert.Equal(t, int64(42), *cfg.Simulation.MonteCarlo.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("SENTINEL_SYMBOLS", "btc, sol ,")
	t.Setenv("MC_SEED", "7")
	t.Setenv("DATA_PROVIDER", "yahoo")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"BTC", "SOL"}, cfg.Symbols)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	require.NotNil(t, cfg.Simulation.MonteCarlo.Seed)
	assert.Equal(t, int64(7), *cfg.Simulation.MonteCarlo.Seed)
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "symbols: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "ftx" }, "Provider"},
		{"zero long window", func(c *Config) { c.Simulation.Trend.LongWindow = 0 }, "LongWindow"},
		{"dca duration beyond cap", func(c *Config) { c.Simulation.DCA.DurationDays = 1e6 }, "DurationDays"},
		{"dip threshold above one", func(c *Config) { c.Simulation.Dip.DipThreshold = 1.5 }, "DipThreshold"},
		{"negative contribution", func(c *Config) { c.Simulation.DCA.ContributionUSD = -1 }, "ContributionUSD"},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, "ChatID"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
