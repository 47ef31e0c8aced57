package montecarlo

import (
	"math"

	"StrategySentinel/internal/calculator"
)

// DriftVolatility holds per-step log-return parameters estimated from history.
type DriftVolatility struct {
	Drift       float64 `json:"drift"`
	Volatility  float64 `json:"volatility"`
	SampleCount int     `json:"sampleCount"`
}

// EstimateDriftAndVolatility computes the mean and sample stddev of log returns
// between consecutive positive prices. ok is false when fewer than two valid
// prices exist.
func EstimateDriftAndVolatility(prices []float64) (DriftVolatility, bool) {
	valid := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p > 0 && finite(p) {
			valid = append(valid, p)
		}
	}
	if len(valid) < 2 {
		return DriftVolatility{}, false
	}
	returns := make([]float64, 0, len(valid)-1)
	for i := 1; i < len(valid); i++ {
		returns = append(returns, math.Log(valid[i]/valid[i-1]))
	}
	return DriftVolatility{
		Drift:       calculator.Mean(returns),
		Volatility:  calculator.StandardDeviation(returns),
		SampleCount: len(returns),
	}, true
}
