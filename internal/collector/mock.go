package collector

import (
	"context"
	"math"
	"time"

	"StrategySentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
	Err     error
	// End is the date of the last generated candle; zero means today (UTC).
	End time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCandles(ctx context.Context, _ string, days int) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return generateMockCandles(m.Price, days, end), nil
}

// generateMockCandles draws a gentle uptrend with a 45-day swing so dips and
// crossovers appear in the simulations.
func generateMockCandles(basePrice float64, count int, end time.Time) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001) * (1 + 0.08*math.Sin(2*math.Pi*float64(i)/45))
		candles[i] = model.Candle{
			Date:  end.AddDate(0, 0, -(count - 1 - i)).Format(model.DateLayout),
			Open:  p * 0.999,
			High:  p * 1.005,
			Low:   p * 0.995,
			Close: p,
		}
	}
	return candles
}
