// Package narrative renders an analysis report as a plain-text prompt for an
// external narrative generator.
package narrative

import (
	"fmt"
	"strings"
	"time"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
)

// SeriesPoints is how many points of each series the prompt carries.
const SeriesPoints = 12

// BuildPrompt summarizes history, indicators, strategy metrics and the
// downsampled forecast. Output is deterministic for a given report.
func BuildPrompt(r *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Asset: %s\n", r.Symbol)
	if r.Summary != "" {
		fmt.Fprintf(&b, "History: %s\n", r.Summary)
	}
	st := r.Stats
	fmt.Fprintf(&b, "Period: %s to %s (%d samples)\n", st.StartDate, st.EndDate, st.SampleCount)
	fmt.Fprintf(&b, "Total return: %.2f%%, annualized drift: %.2f%%, annualized volatility: %.2f%%\n",
		st.TotalReturn*100, st.AnnualizedDrift*100, st.AnnualizedVolatility*100)

	ind := r.Indicators
	fmt.Fprintf(&b, "Indicators: price %.2f, RSI14 %.1f, EMA20 %.2f, SMA50 %.2f, 52w range %.2f-%.2f (position %.2f)\n",
		ind.CurrentPrice, ind.RSI14, ind.EMA20, ind.SMA50, ind.Low52w, ind.High52w, ind.Position52w)

	if r.DCA != nil {
		writeMetrics(&b, "Dollar-cost averaging", r.DCA.Metrics)
	}
	if r.Dip != nil {
		writeMetrics(&b, "Buy the dip", r.Dip.Metrics)
	}
	if r.Trend != nil {
		writeMetrics(&b, "Trend following (historical)", r.Trend.Metrics)
	}
	if r.TrendProjection != nil {
		writeMetrics(&b, "Trend following (with forecast)", r.TrendProjection.Metrics)
	}

	if r.DCA != nil && len(r.DCA.History.Series) > 0 {
		writeSeries(&b, "Recent closes", r.DCA.History.Series)
	}
	if len(r.Forecast) > 0 {
		writeSeries(&b, "Simulated forecast", PathSeries(r.Forecast))
	}

	b.WriteString("\nWrite a short, neutral commentary on these simulations. They are illustrative projections, not advice.\n")
	return b.String()
}

func writeMetrics(b *strings.Builder, title string, metrics []model.AnalysisMetric) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, m := range metrics {
		fmt.Fprintf(b, "- %s: %s\n", m.Label, FormatValue(m))
	}
}

func writeSeries(b *strings.Builder, title string, points []model.TimeSeriesPoint) {
	sampled := calculator.DownsampleSeries(points, SeriesPoints)
	parts := make([]string, len(sampled))
	for i, p := range sampled {
		parts[i] = fmt.Sprintf("%s=%.2f", p.Date, p.Price)
	}
	fmt.Fprintf(b, "\n%s: %s\n", title, strings.Join(parts, ", "))
}

// PathSeries converts chart points to dated points.
func PathSeries(path []model.PathPoint) []model.TimeSeriesPoint {
	out := make([]model.TimeSeriesPoint, len(path))
	for i, p := range path {
		out[i] = model.TimeSeriesPoint{
			Date:  time.UnixMilli(p.X).UTC().Format(model.DateLayout),
			Price: p.Y,
		}
	}
	return out
}

// FormatValue renders a metric with its unit.
func FormatValue(m model.AnalysisMetric) string {
	switch m.Unit {
	case model.UnitUSD:
		return fmt.Sprintf("$%.2f", m.Value)
	case model.UnitPercent:
		return fmt.Sprintf("%.2f%%", m.Value)
	case model.UnitCount:
		return fmt.Sprintf("%.0f", m.Value)
	case model.UnitDays:
		return fmt.Sprintf("%.1f days", m.Value)
	case model.UnitUnits:
		return fmt.Sprintf("%.6f units", m.Value)
	default:
		return fmt.Sprintf("%.3f", m.Value)
	}
}
