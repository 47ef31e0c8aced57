package calculator

import (
	"StrategySentinel/internal/model"
)

// ComputeRollingHighs returns the trailing max close over a left-clamped window.
func ComputeRollingHighs(history []model.Candle, window int) []float64 {
	return RollingMax(extractCloses(history), window)
}

// ComputeRollingLows returns the trailing min close over a left-clamped window.
func ComputeRollingLows(history []model.Candle, window int) []float64 {
	return rolling(extractCloses(history), window, func(a, b float64) bool { return a < b })
}

// RollingMax is ComputeRollingHighs over raw prices.
func RollingMax(prices []float64, window int) []float64 {
	return rolling(prices, window, func(a, b float64) bool { return a > b })
}

// rolling keeps a monotonic deque of indices so each step is amortised O(1).
// better(a, b) reports whether a should replace b as the window extreme.
func rolling(prices []float64, window int, better func(a, b float64) bool) []float64 {
	window = clampWindow(window)
	out := make([]float64, len(prices))
	deque := make([]int, 0, window)
	for i, p := range prices {
		for len(deque) > 0 && !better(prices[deque[len(deque)-1]], p) {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[0] <= i-window {
			deque = deque[1:]
		}
		out[i] = prices[deque[0]]
	}
	return out
}

// RangePosition returns where current sits within [low, high] as 0.0~1.0.
// A flat range reports 0.5.
func RangePosition(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
