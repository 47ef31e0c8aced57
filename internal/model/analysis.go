package model

// HistoryStats is a snapshot summary of a price history.
type HistoryStats struct {
	StartDate            string  `json:"startDate"`
	EndDate              string  `json:"endDate"`
	SampleCount          int     `json:"sampleCount"`
	TotalReturn          float64 `json:"totalReturn"`
	AnnualizedDrift      float64 `json:"annualizedDrift"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
}

// AnalysisMetric is a named scalar result that narrative generation can cite.
type AnalysisMetric struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Metric units.
const (
	UnitUSD     = "USD"
	UnitPercent = "%"
	UnitUnits   = "units"
	UnitDays    = "days"
	UnitCount   = "count"
	UnitRatio   = "ratio"
)

// History is the historical half of an AnalysisPackage.
type History struct {
	Stats  HistoryStats      `json:"stats"`
	Series []TimeSeriesPoint `json:"series"`
}

// AnalysisPackage is the uniform output envelope of every simulator.
type AnalysisPackage[P any] struct {
	History    History          `json:"history"`
	Projection P                `json:"projection"`
	Metrics    []AnalysisMetric `json:"metrics"`
}

// Metric returns the metric with the given id.
func (p *AnalysisPackage[P]) Metric(id string) (AnalysisMetric, bool) {
	for _, m := range p.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return AnalysisMetric{}, false
}
