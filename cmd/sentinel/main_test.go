package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrategySentinel/internal/collector"
	"StrategySentinel/internal/config"
	"StrategySentinel/internal/montecarlo"
)

const mockConfig = `
symbols: [btc]
log:
  level: error
data_source:
  provider: mock
  history_days: 120
simulation:
  monte_carlo:
    horizon_months: 1
    seed: 7
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func loadMockConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := loadConfig(writeConfig(t, mockConfig))
	require.NoError(t, err)
	return cfg
}

func simulate(t *testing.T, kind, format string) (string, error) {
	t.Helper()
	cmd := newSimulateCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	err := runSimulate(cmd, loadMockConfig(t), kind, "btc", &simulateOptions{format: format})
	return out.String(), err
}

func TestSimulate_JSON(t *testing.T) {
	out, err := simulate(t, "dca", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "BTC", report["symbol"])
	assert.Equal(t, "MANUAL", report["trigger"])
	assert.Contains(t, report, "dca")
	assert.NotContains(t, report, "dip")
	assert.NotContains(t, report, "trend")
	assert.NotEmpty(t, report["forecast"])
}

func TestSimulate_Prompt(t *testing.T) {
	out, err := simulate(t, "all", "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent closes: ")
	assert.Contains(t, out, "Simulated forecast: ")
}

func TestSimulate_Errors(t *testing.T) {
	_, err := simulate(t, "all", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = simulate(t, "martingale", "json")
	assert.Error(t, err)
}

func TestBuildFetcher(t *testing.T) {
	cfg := loadMockConfig(t)

	for _, provider := range []string{"coindesk", "yahoo", "mock"} {
		cfg.DataSource.Provider = provider
		f, err := buildFetcher(cfg)
		require.NoError(t, err, provider)
		assert.Equal(t, provider, f.Name())
	}

	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.BaseURL = "http://localhost:1234"
	f, err := buildFetcher(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234", f.(*collector.YahooFetcher).BaseURL)

	cfg.DataSource.Provider = "binance"
	_, err = buildFetcher(cfg)
	assert.Error(t, err)
}

func TestApplyMonteCarloFlags(t *testing.T) {
	seed := int64(3)
	base := montecarlo.Config{HorizonMonths: 12, StepDays: 2, Seed: &seed}

	kept := applyMonteCarloFlags(base, &simulateOptions{})
	assert.Equal(t, 12, kept.HorizonMonths)
	assert.Equal(t, 2, kept.StepDays)
	require.NotNil(t, kept.Seed)
	assert.Equal(t, int64(3), *kept.Seed)

	over := applyMonteCarloFlags(base, &simulateOptions{horizon: 3, step: 5, seed: 11})
	assert.Equal(t, 3, over.HorizonMonths)
	assert.Equal(t, 5, over.StepDays)
	assert.Equal(t, int64(11), *over.Seed)
	assert.Equal(t, int64(3), *base.Seed)
}

func TestRootCommand_Simulate(t *testing.T) {
	path := writeConfig(t, mockConfig)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", path, "simulate", "trend", "eth", "--format", "text"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "ETH")
}
