package model

// Indicators holds the technical snapshot that accompanies an analysis report.
type Indicators struct {
	CurrentPrice float64 `json:"currentPrice"`
	RSI14        float64 `json:"rsi14"`
	EMA20        float64 `json:"ema20"`
	SMA50        float64 `json:"sma50"`
	High52w      float64 `json:"high52w"`
	Low52w       float64 `json:"low52w"`
	Position52w  float64 `json:"position52w"` // 0.0 ~ 1.0
}
