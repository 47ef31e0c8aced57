// Package calculator holds the pure statistics computed over a candle history.
// Every function is total: bad input yields an empty or zero result, never an error.
package calculator

import (
	"math"

	"StrategySentinel/internal/model"
)

// ExtractCloseSeries maps each candle to its close price.
func ExtractCloseSeries(history []model.Candle) []model.TimeSeriesPoint {
	points := make([]model.TimeSeriesPoint, len(history))
	for i, c := range history {
		points[i] = model.TimeSeriesPoint{Date: c.Date, Price: c.Close}
	}
	return points
}

// ComputeLogReturns returns ln(next/prev) for each consecutive pair of candles
// whose closes are both positive. A non-positive close breaks the chain for the
// pairs it takes part in; the rest of the series is still used.
func ComputeLogReturns(history []model.Candle) []float64 {
	if len(history) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Close
		cur := history[i].Close
		if prev <= 0 || cur <= 0 || !isFinite(prev) || !isFinite(cur) {
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

func extractCloses(history []model.Candle) []float64 {
	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}
	return closes
}

// PointPrices returns the prices of a point series.
func PointPrices(points []model.TimeSeriesPoint) []float64 {
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clampWindow floors the window at one.
func clampWindow(window int) int {
	if window < 1 {
		return 1
	}
	return window
}
