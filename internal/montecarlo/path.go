package montecarlo

import (
	"math"

	"StrategySentinel/internal/model"
)

const (
	MillisPerDay = int64(86_400_000)
	// MinPrice keeps simulated prices positive so later log returns stay defined.
	MinPrice = 0.0001
)

// GeneratePath simulates one GBM trajectory from startPrice. drift and
// volatility are per-step log-return parameters. Invalid input yields an empty
// path. With cfg.Seed set, repeated calls return identical trajectories.
func GeneratePath(startPrice float64, startMillis int64, drift, volatility float64, cfg Config) []model.PathPoint {
	return GeneratePathWithSource(startPrice, startMillis, drift, volatility, cfg, NewSource(cfg))
}

// GeneratePathWithSource is GeneratePath drawing variates from src.
func GeneratePathWithSource(startPrice float64, startMillis int64, drift, volatility float64, cfg Config, src NormalSource) []model.PathPoint {
	if src == nil || !(startPrice > 0) || !finite(startPrice) || !finite(drift) || !finite(volatility) {
		return []model.PathPoint{}
	}
	cfg = cfg.Normalized()
	steps := cfg.Steps()
	stepMillis := int64(cfg.StepDays) * MillisPerDay

	path := make([]model.PathPoint, 0, steps)
	price := startPrice
	ts := startMillis
	for i := 0; i < steps; i++ {
		z := src.NormFloat64()
		price *= math.Exp(drift + volatility*z)
		if !(price > MinPrice) {
			price = MinPrice
		}
		ts += stepMillis
		path = append(path, model.PathPoint{X: ts, Y: price})
	}
	return path
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
