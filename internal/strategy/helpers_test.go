package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StrategySentinel/internal/model"
)

var sampleCloses = []float64{100, 105, 98, 110, 115, 112, 120, 118, 125, 130}

func historyFromCloses(symbol string, closes []float64) model.HistoryResult {
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			Date:  model.AddDays("2024-01-01", i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	h := model.HistoryResult{Symbol: symbol, Instrument: symbol + "-USD", Market: "cadli", Candles: candles}
	if len(candles) > 0 {
		h.StartDate = candles[0].Date
		h.EndDate = candles[len(candles)-1].Date
	}
	return h
}

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func assertAllZero(t *testing.T, metrics []model.AnalysisMetric) {
	t.Helper()
	assert.NotEmpty(t, metrics)
	for _, m := range metrics {
		assert.Zerof(t, m.Value, "metric %s", m.ID)
	}
}
