package calculator

import (
	"math"

	"StrategySentinel/internal/model"
)

// DefaultPeriodsPerYear annualizes daily crypto returns (markets trade every day).
const DefaultPeriodsPerYear = 365

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StandardDeviation returns the sample standard deviation (n-1 denominator),
// 0 when there are fewer than two values.
func StandardDeviation(values []float64) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// EstimateAnnualizedDrift scales the mean log return by periodsPerYear.
func EstimateAnnualizedDrift(logReturns []float64, periodsPerYear float64) float64 {
	return Mean(logReturns) * normalizePeriods(periodsPerYear)
}

// EstimateAnnualizedVolatility scales the sample stddev of log returns by sqrt(periodsPerYear).
func EstimateAnnualizedVolatility(logReturns []float64, periodsPerYear float64) float64 {
	return StandardDeviation(logReturns) * math.Sqrt(normalizePeriods(periodsPerYear))
}

func normalizePeriods(periodsPerYear float64) float64 {
	if periodsPerYear <= 0 || !isFinite(periodsPerYear) {
		return DefaultPeriodsPerYear
	}
	return periodsPerYear
}

// BuildHistoryStats assembles a fresh HistoryStats snapshot for the series.
func BuildHistoryStats(history []model.Candle) model.HistoryStats {
	stats := model.HistoryStats{SampleCount: len(history)}
	if len(history) == 0 {
		return stats
	}
	first, last := history[0], history[len(history)-1]
	stats.StartDate = first.Date
	stats.EndDate = last.Date
	if len(history) >= 2 && first.Close > 0 {
		stats.TotalReturn = (last.Close - first.Close) / first.Close
	}
	returns := ComputeLogReturns(history)
	stats.AnnualizedDrift = EstimateAnnualizedDrift(returns, DefaultPeriodsPerYear)
	stats.AnnualizedVolatility = EstimateAnnualizedVolatility(returns, DefaultPeriodsPerYear)
	return stats
}
