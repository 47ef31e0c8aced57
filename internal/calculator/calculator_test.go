package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrategySentinel/internal/model"
)

var sampleCloses = []float64{100, 105, 98, 110, 115, 112, 120, 118, 125, 130}

func sampleHistory() []model.Candle {
	candles := make([]model.Candle, len(sampleCloses))
	for i, c := range sampleCloses {
		candles[i] = model.Candle{
			Date:  model.AddDays("2024-01-01", i),
			Open:  c,
			High:  c * 1.01,
			Low:   c * 0.99,
			Close: c,
		}
	}
	return candles
}

func TestExtractCloseSeries(t *testing.T) {
	points := ExtractCloseSeries(sampleHistory())
	require.Len(t, points, 10)
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, 130.0, points[9].Price)
	assert.Empty(t, ExtractCloseSeries(nil))
}

func TestComputeLogReturns_Fixture(t *testing.T) {
	returns := ComputeLogReturns(sampleHistory())
	require.Len(t, returns, 9)
	assert.InDelta(t, math.Log(105.0/100.0), returns[0], 1e-12)
	assert.InDelta(t, 0.04879, returns[0], 1e-5)
}

func TestComputeLogReturns_SkipsNonPositive(t *testing.T) {
	history := []model.Candle{
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-02", Close: 0},
		{Date: "2024-01-03", Close: 110},
		{Date: "2024-01-04", Close: 121},
	}
	returns := ComputeLogReturns(history)
	require.Len(t, returns, 1)
	assert.InDelta(t, math.Log(1.1), returns[0], 1e-12)

	assert.Empty(t, ComputeLogReturns(history[:1]))
}

func TestComputeSimpleMovingAverage(t *testing.T) {
	sma := ComputeSimpleMovingAverage(sampleHistory(), 3)
	require.Len(t, sma, 10)
	assert.InDelta(t, (118.0+125.0+130.0)/3.0, sma[9], 1e-9)
	assert.InDelta(t, 124.3333333, sma[9], 1e-6)
	// left-clamped prefix
	assert.Equal(t, 100.0, sma[0])
	assert.InDelta(t, 102.5, sma[1], 1e-9)
}

func TestRollingClamping(t *testing.T) {
	history := sampleHistory()

	highs := ComputeRollingHighs(history, 100)
	lows := ComputeRollingLows(history, 100)
	for i := range history {
		maxSoFar, minSoFar := math.Inf(-1), math.Inf(1)
		for _, c := range sampleCloses[:i+1] {
			maxSoFar = math.Max(maxSoFar, c)
			minSoFar = math.Min(minSoFar, c)
		}
		assert.Equal(t, maxSoFar, highs[i])
		assert.Equal(t, minSoFar, lows[i])
	}
	assert.Equal(t, 130.0, highs[len(highs)-1])

	assert.Equal(t, sampleCloses, ComputeRollingHighs(history, 1))
	assert.Equal(t, sampleCloses, ComputeRollingLows(history, 1))
	assert.Equal(t, sampleCloses, ComputeSimpleMovingAverage(history, 0))
}

func TestRollingHighs_Window3(t *testing.T) {
	highs := ComputeRollingHighs(sampleHistory(), 3)
	assert.Equal(t, []float64{100, 105, 105, 110, 115, 115, 120, 120, 125, 130}, highs)
	lows := ComputeRollingLows(sampleHistory(), 3)
	assert.Equal(t, []float64{100, 100, 98, 98, 98, 110, 112, 112, 118, 118}, lows)
}

func TestMeanAndStandardDeviation(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StandardDeviation([]float64{5}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	// sample stddev of 1..4 = sqrt(5/3)
	assert.InDelta(t, math.Sqrt(5.0/3.0), StandardDeviation([]float64{1, 2, 3, 4}), 1e-12)
}

func TestAnnualization(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02, 0.0}
	assert.InDelta(t, Mean(returns)*365, EstimateAnnualizedDrift(returns, 365), 1e-12)
	assert.InDelta(t, Mean(returns)*365, EstimateAnnualizedDrift(returns, 0), 1e-12)
	assert.InDelta(t, StandardDeviation(returns)*math.Sqrt(252), EstimateAnnualizedVolatility(returns, 252), 1e-12)
}

func TestBuildHistoryStats(t *testing.T) {
	stats := BuildHistoryStats(sampleHistory())
	assert.Equal(t, "2024-01-01", stats.StartDate)
	assert.Equal(t, "2024-01-10", stats.EndDate)
	assert.Equal(t, 10, stats.SampleCount)
	assert.InDelta(t, 0.30, stats.TotalReturn, 1e-12)
	assert.Greater(t, stats.AnnualizedVolatility, 0.0)

	single := BuildHistoryStats(sampleHistory()[:1])
	assert.Equal(t, 0.0, single.TotalReturn)
	assert.Equal(t, model.HistoryStats{}, BuildHistoryStats(nil))
}

func TestDownsampleSeries(t *testing.T) {
	points := ExtractCloseSeries(sampleHistory())

	assert.Equal(t, points, DownsampleSeries(points, 10))
	assert.Equal(t, points, DownsampleSeries(points, 50))
	assert.Equal(t, []model.TimeSeriesPoint{points[9]}, DownsampleSeries(points, 1))
	assert.Empty(t, DownsampleSeries(nil, 5))
	assert.Empty(t, DownsampleSeries(points, 0))

	four := DownsampleSeries(points, 4)
	require.Len(t, four, 4)
	// step = 3 -> indices 0, 3, 6, 9
	assert.Equal(t, []float64{100, 110, 120, 130}, PointPrices(four))

	// rounding: step = 9/5 = 1.8 -> 0, 2, 4, 5, 7, 9
	six := DownsampleSeries(points, 6)
	assert.Equal(t, []float64{100, 98, 115, 112, 118, 130}, PointPrices(six))
}

func TestDownsampleSeries_ReturnsCopy(t *testing.T) {
	points := ExtractCloseSeries(sampleHistory())
	out := DownsampleSeries(points, 20)
	out[0].Price = -1
	assert.Equal(t, 100.0, points[0].Price)
}

func TestResampleHistory(t *testing.T) {
	history := sampleHistory()
	out := ResampleHistory(history, 2)
	require.Len(t, out, 2)
	assert.Equal(t, history[0], out[0])
	assert.Equal(t, history[9], out[1])
}

func TestHashSymbol(t *testing.T) {
	assert.Equal(t, int('B')+int('T')+int('C'), HashSymbol("BTC"))
	assert.Equal(t, HashSymbol("BTC"), HashSymbol("  btc "))
	assert.NotEqual(t, HashSymbol("BTC"), HashSymbol("ETH"))
	assert.Equal(t, 0, HashSymbol(""))
}

func TestCalculateRSI(t *testing.T) {
	assert.Equal(t, 50.0, CalculateRSI(sampleCloses, 14))

	rising := make([]float64, 40)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	assert.Greater(t, CalculateRSI(rising, 14), 70.0)

	mixed := append(append([]float64{}, sampleCloses...), sampleCloses...)
	rsi := CalculateRSI(mixed, 5)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestBuildIndicators(t *testing.T) {
	ind := BuildIndicators(sampleHistory())
	assert.Equal(t, 130.0, ind.CurrentPrice)
	assert.Equal(t, 130.0, ind.High52w)
	assert.Equal(t, 98.0, ind.Low52w)
	assert.Equal(t, 1.0, ind.Position52w)
	assert.InDelta(t, Mean(sampleCloses), ind.SMA50, 1e-9)

	empty := BuildIndicators(nil)
	assert.Equal(t, 0.5, empty.Position52w)
}

func TestRangePosition(t *testing.T) {
	assert.Equal(t, 0.5, RangePosition(10, 10, 10))
	assert.Equal(t, 0.0, RangePosition(5, 20, 10))
	assert.Equal(t, 1.0, RangePosition(25, 20, 10))
	assert.InDelta(t, 0.25, RangePosition(12.5, 20, 10), 1e-12)
}
