package calculator

import (
	"math"

	"StrategySentinel/internal/model"
)

// ResampleHistory evenly re-indexes candles down to at most targetPoints entries.
func ResampleHistory(history []model.Candle, targetPoints int) []model.Candle {
	return downsample(history, targetPoints)
}

// DownsampleSeries evenly re-indexes points down to at most targetPoints entries.
func DownsampleSeries(points []model.TimeSeriesPoint, targetPoints int) []model.TimeSeriesPoint {
	return downsample(points, targetPoints)
}

// downsample picks index round(i*step) with step = (n-1)/(target-1).
// target >= n copies the input and target == 1 keeps only the last element.
func downsample[T any](items []T, target int) []T {
	n := len(items)
	if n == 0 || target <= 0 {
		return []T{}
	}
	if target >= n {
		out := make([]T, n)
		copy(out, items)
		return out
	}
	if target == 1 {
		return []T{items[n-1]}
	}
	step := float64(n-1) / float64(target-1)
	out := make([]T, 0, target)
	for i := 0; i < target; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > n-1 {
			idx = n - 1
		}
		out = append(out, items[idx])
	}
	return out
}
