// Package strategy simulates DCA, buy-the-dip and trend-following strategies
// over a price history. Simulators never fail: invalid parameters or an empty
// history produce a structurally complete package whose totals are zero.
package strategy

import (
	"math"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
)

func buildHistory(candles []model.Candle) model.History {
	return model.History{
		Stats:  calculator.BuildHistoryStats(candles),
		Series: calculator.ExtractCloseSeries(candles),
	}
}

func metric(id, label string, value float64, unit string) model.AnalysisMetric {
	if !finite(value) {
		value = 0
	}
	return model.AnalysisMetric{ID: id, Label: label, Value: value, Unit: unit}
}

// validPoints drops points whose price is non-positive or non-finite.
func validPoints(points []model.TimeSeriesPoint) []model.TimeSeriesPoint {
	out := make([]model.TimeSeriesPoint, 0, len(points))
	for _, p := range points {
		if positive(p.Price) {
			out = append(out, p)
		}
	}
	return out
}

// lastPositiveClose returns the most recent usable close and its date.
func lastPositiveClose(candles []model.Candle) (model.Candle, bool) {
	for i := len(candles) - 1; i >= 0; i-- {
		if positive(candles[i].Close) {
			return candles[i], true
		}
	}
	return model.Candle{}, false
}

func safeDiv(num, den float64) float64 {
	if den == 0 || !finite(den) {
		return 0
	}
	return num / den
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
