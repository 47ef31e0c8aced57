package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/config"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/montecarlo"
	"StrategySentinel/internal/narrative"
	"StrategySentinel/internal/notifier"
)

type simulateOptions struct {
	format  string
	seed    int64
	horizon int
	step    int
	days    int
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate [dca|dip|trend|all] SYMBOL",
		Short: "Fetch history for SYMBOL and print one simulation run",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, symbol := "all", args[0]
			if len(args) == 2 {
				kind, symbol = args[0], args[1]
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runSimulate(cmd, cfg, kind, symbol, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json, text or prompt")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Monte Carlo seed (0 keeps the configured seed)")
	cmd.Flags().IntVar(&opts.horizon, "horizon", 0, "forecast horizon in months: 1, 3, 6, 12, 24 or 36")
	cmd.Flags().IntVar(&opts.step, "step-days", 0, "days per simulated step")
	cmd.Flags().IntVar(&opts.days, "days", 0, "daily candles to fetch (0 keeps the configured value)")
	return cmd
}

func runSimulate(cmd *cobra.Command, cfg *config.Config, kind, symbol string, opts *simulateOptions) error {
	strategies, err := analysis.ParseStrategies(kind)
	if err != nil {
		return err
	}
	if opts.days > 0 {
		cfg.DataSource.HistoryDays = opts.days
	}

	log := newLogger(cfg, cmd.ErrOrStderr(), true)

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	col := buildCollector(cfg, fetcher, log, nil)
	history, err := col.Collect(cmd.Context(), symbol)
	if err != nil {
		return err
	}

	req := defaultRequest(cfg)
	req.Strategies = strategies
	req.Trigger = model.TriggerManual
	req.MonteCarlo = applyMonteCarloFlags(req.MonteCarlo, opts)

	report, err := analysis.NewService(log, nil).Analyze(cmd.Context(), history, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(opts.format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "prompt":
		_, err = fmt.Fprint(out, narrative.BuildPrompt(report))
	case "text":
		_, err = fmt.Fprintln(out, notifier.FormatReport(report))
	default:
		return fmt.Errorf("unknown format %q (want json, text or prompt)", opts.format)
	}
	return err
}

func applyMonteCarloFlags(base montecarlo.Config, opts *simulateOptions) montecarlo.Config {
	o := montecarlo.Overrides{
		HorizonMonths: &base.HorizonMonths,
		StepDays:      &base.StepDays,
		Seed:          base.Seed,
	}
	if opts.horizon != 0 {
		o.HorizonMonths = &opts.horizon
	}
	if opts.step != 0 {
		o.StepDays = &opts.step
	}
	if opts.seed != 0 {
		o.Seed = &opts.seed
	}
	return montecarlo.BuildConfig(o)
}
