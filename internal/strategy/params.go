package strategy

import "math"

const (
	// MaxDcaDurationDays bounds a DCA projection to a hundred years.
	MaxDcaDurationDays = 36500
	// MaxDcaSteps bounds the number of scheduled contributions.
	MaxDcaSteps = 100_000
)

// DcaParams configures a dollar-cost-averaging projection.
type DcaParams struct {
	ContributionUSD float64 `yaml:"contribution_usd" json:"contributionUsd" default:"100" validate:"gt=0"`
	IntervalDays    float64 `yaml:"interval_days" json:"intervalDays" default:"7" validate:"gt=0"`
	DurationDays    float64 `yaml:"duration_days" json:"durationDays" default:"180" validate:"gt=0,max=36500"`
}

// DipParams configures the buy-the-dip simulation.
// DipThreshold is a fraction: 0.1 means a 10% drawdown from the rolling high.
type DipParams struct {
	TotalBudget          float64 `yaml:"total_budget" json:"totalBudget" default:"1000" validate:"gt=0"`
	DipThreshold         float64 `yaml:"dip_threshold" json:"dipThreshold" default:"0.1" validate:"gt=0,lt=1"`
	LookbackWindowDays   int     `yaml:"lookback_window_days" json:"lookbackWindowDays" default:"30" validate:"gte=1"`
	ProjectionWindowDays int     `yaml:"projection_window_days" json:"projectionWindowDays" default:"90" validate:"gte=1"`
}

// TrendParams configures the moving-average crossover simulation. Any windows
// >= 1 are accepted; equal windows never signal long.
type TrendParams struct {
	Capital     float64 `yaml:"capital" json:"capital" default:"10000" validate:"gt=0"`
	ShortWindow int     `yaml:"short_window" json:"shortWindow" default:"20" validate:"gte=1"`
	LongWindow  int     `yaml:"long_window" json:"longWindow" default:"50" validate:"gte=1"`
}

func (p DcaParams) valid() bool {
	if !positive(p.ContributionUSD) || !positive(p.IntervalDays) || !positive(p.DurationDays) {
		return false
	}
	if p.DurationDays > MaxDcaDurationDays {
		return false
	}
	steps := math.Round(p.DurationDays / p.IntervalDays)
	return finite(steps) && steps <= MaxDcaSteps
}

func (p DipParams) valid() bool {
	return positive(p.TotalBudget) && positive(p.DipThreshold) && p.DipThreshold < 1 &&
		p.LookbackWindowDays >= 1 && p.ProjectionWindowDays >= 1
}

func (p TrendParams) valid() bool {
	return positive(p.Capital) && p.ShortWindow >= 1 && p.LongWindow >= 1
}
