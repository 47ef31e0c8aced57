package recorder

import (
	"time"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/model"
)

// RunRecord is one analysis run flattened for storage.
type RunRecord struct {
	Symbol     string
	Trigger    model.TriggerType
	Stats      model.HistoryStats
	Indicators model.Indicators
	Metrics    []StrategyMetric
	RecordedAt time.Time
}

// StrategyMetric is a single metric tagged with the simulator that produced it.
type StrategyMetric struct {
	Strategy model.StrategyKind
	Metric   model.AnalysisMetric
}

// RunSummary is a stored run as read back for display.
type RunSummary struct {
	ID           int64
	Symbol       string
	Trigger      model.TriggerType
	RecordedAt   time.Time
	EndDate      string
	CurrentPrice float64
	TotalReturn  float64
	Metrics      map[string]float64 // keyed by "strategy.metric_id"
}

// Recorder persists analysis runs for later review.
type Recorder interface {
	RecordRun(run *RunRecord) (int64, error)
	RecentRuns(symbol string, limit int) ([]RunSummary, error)
	Close() error
}

// FromReport flattens an analysis report into a RunRecord.
func FromReport(r *analysis.Report) *RunRecord {
	run := &RunRecord{
		Symbol:     r.Symbol,
		Trigger:    r.Trigger,
		Stats:      r.Stats,
		Indicators: r.Indicators,
		RecordedAt: r.GeneratedAt,
	}
	add := func(kind model.StrategyKind, metrics []model.AnalysisMetric) {
		for _, m := range metrics {
			run.Metrics = append(run.Metrics, StrategyMetric{Strategy: kind, Metric: m})
		}
	}
	if r.DCA != nil {
		add(model.StrategyDCA, r.DCA.Metrics)
	}
	if r.Dip != nil {
		add(model.StrategyDip, r.Dip.Metrics)
	}
	if r.Trend != nil {
		add(model.StrategyTrend, r.Trend.Metrics)
	}
	if r.TrendProjection != nil {
		add(model.StrategyTrendProj, r.TrendProjection.Metrics)
	}
	return run
}

// MetricKey is the key used in RunSummary.Metrics.
func MetricKey(kind model.StrategyKind, id string) string {
	return string(kind) + "." + id
}
