package calculator

import (
	"StrategySentinel/internal/model"
)

// ComputeSimpleMovingAverage returns, for every index i, the mean close over
// closes[max(0, i-window+1) .. i]. The first window-1 points average over the
// shorter prefix instead of being undefined.
func ComputeSimpleMovingAverage(history []model.Candle, window int) []float64 {
	return SimpleMovingAverage(extractCloses(history), window)
}

// SimpleMovingAverage is ComputeSimpleMovingAverage over raw prices.
func SimpleMovingAverage(prices []float64, window int) []float64 {
	window = clampWindow(window)
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		start := i - window + 1
		if start > 0 {
			sum -= prices[start-1]
		} else {
			start = 0
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}

// LatestSMA returns the mean of the last period prices, or of all prices when
// fewer are available. Returns 0 for an empty slice.
func LatestSMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	period = clampWindow(period)
	start := len(prices) - period
	if start < 0 {
		start = 0
	}
	return Mean(prices[start:])
}
