package model

import "time"

// DateLayout is the calendar-day format used by every series in the engine.
const DateLayout = "2006-01-02"

// Candle represents a single daily OHLC bar.
type Candle struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// TimeSeriesPoint is the price at a calendar day.
type TimeSeriesPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PathPoint is a chart-ready point: unix milliseconds on x, price on y.
type PathPoint struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// HistoryResult is what the history collector hands to the engine.
// Candles are sorted ascending by date with no duplicate dates.
type HistoryResult struct {
	Symbol     string    `json:"symbol"`
	Instrument string    `json:"instrument"`
	Market     string    `json:"market"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Candles    []Candle  `json:"candles"`
	Summary    string    `json:"summary"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// ParseDate parses a calendar-day string. ok is false for malformed input.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays shifts a calendar-day string by n days. Malformed input is returned unchanged.
func AddDays(date string, n int) string {
	t, ok := ParseDate(date)
	if !ok {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}
