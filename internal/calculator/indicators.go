package calculator

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"

	"StrategySentinel/internal/model"
)

// CalculateRSI computes the RSI over the given period and returns the latest value.
// Returns 50.0 when there is not enough data.
func CalculateRSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0
	}
	rsi := momentum.NewRsiWithPeriod[float64](period)
	values := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(prices)))
	if len(values) == 0 {
		return 50.0
	}
	last := values[len(values)-1]
	if !isFinite(last) {
		return 50.0
	}
	return last
}

// CalculateEMA returns the latest exponential moving average, falling back to
// the plain mean when the series is shorter than the period.
func CalculateEMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return Mean(prices)
	}
	ema := trend.NewEmaWithPeriod[float64](period)
	values := helper.ChanToSlice(ema.Compute(helper.SliceToChan(prices)))
	if len(values) == 0 {
		return Mean(prices)
	}
	return values[len(values)-1]
}

// BuildIndicators computes the technical snapshot for the latest candle.
// The 52-week range uses the last 365 daily closes.
func BuildIndicators(history []model.Candle) model.Indicators {
	if len(history) == 0 {
		return model.Indicators{Position52w: 0.5, RSI14: 50}
	}
	closes := extractCloses(history)
	current := closes[len(closes)-1]

	start := len(closes) - 365
	if start < 0 {
		start = 0
	}
	window := closes[start:]
	high, low := window[0], window[0]
	for _, c := range window {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}

	return model.Indicators{
		CurrentPrice: current,
		RSI14:        CalculateRSI(closes, 14),
		EMA20:        CalculateEMA(closes, 20),
		SMA50:        LatestSMA(closes, 50),
		High52w:      high,
		Low52w:       low,
		Position52w:  RangePosition(current, high, low),
	}
}
