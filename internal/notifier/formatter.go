package notifier

import (
	"fmt"
	"html"
	"strings"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/narrative"
	"StrategySentinel/internal/recorder"
)

// FormatReport formats an analysis report into a Telegram HTML message.
func FormatReport(r *analysis.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StrategySentinel %s</b> | %s\n\n", html.EscapeString(r.Symbol), r.GeneratedAt.Format(model.DateLayout)))
	if r.Summary != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n\n", html.EscapeString(r.Summary)))
	}

	ind := r.Indicators
	b.WriteString(fmt.Sprintf("Price: %.2f | RSI14: %.0f\n", ind.CurrentPrice, ind.RSI14))
	b.WriteString(fmt.Sprintf("EMA20: %.2f | SMA50: %.2f\n", ind.EMA20, ind.SMA50))
	b.WriteString(fmt.Sprintf("52w range: %.2f - %.2f (%.0f%%)\n", ind.Low52w, ind.High52w, ind.Position52w*100))
	b.WriteString(fmt.Sprintf("Volatility (ann.): %.1f%%\n", r.Stats.AnnualizedVolatility*100))

	if r.DCA != nil {
		writeSection(&b, "💰", "DCA", r.DCA.Metrics)
	}
	if r.Dip != nil {
		writeSection(&b, "🎣", "Buy the dip", r.Dip.Metrics)
		for _, w := range r.Dip.Projection.Windows {
			b.WriteString(fmt.Sprintf("  window %s → %s: $%.2f @ ≤%.2f\n", w.WindowStart, w.WindowEnd, w.Allocation, w.ExpectedPrice))
		}
	}
	if r.Trend != nil {
		writeSection(&b, "📈", "Trend (historical)", r.Trend.Metrics)
	}
	if r.TrendProjection != nil {
		writeSection(&b, "🔮", "Trend (with forecast)", r.TrendProjection.Metrics)
	}

	b.WriteString("\n<i>Simulated projections, not financial advice.</i>")
	return b.String()
}

func writeSection(b *strings.Builder, icon, title string, metrics []model.AnalysisMetric) {
	b.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", icon, title))
	for _, m := range metrics {
		b.WriteString(fmt.Sprintf("  %s: %s\n", m.Label, narrative.FormatValue(m)))
	}
}

// FormatHistory lists recently recorded runs for a symbol.
func FormatHistory(symbol string, runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return fmt.Sprintf("No recorded runs for %s yet.", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s recent runs</b>\n\n", html.EscapeString(symbol)))
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s [%s] price %.2f",
			r.RecordedAt.Format("2006-01-02 15:04"), strings.ToLower(string(r.Trigger)), r.CurrentPrice))
		if v, ok := r.Metrics[recorder.MetricKey(model.StrategyTrend, "total_return_pct")]; ok {
			b.WriteString(fmt.Sprintf(" | trend %+.1f%%", v))
		}
		if v, ok := r.Metrics[recorder.MetricKey(model.StrategyDCA, "projected_return_pct")]; ok {
			b.WriteString(fmt.Sprintf(" | dca %+.1f%%", v))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError formats a failed run.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("❌ %s analysis failed: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// HelpText lists the supported commands.
func HelpText(symbols []string) string {
	return "Commands:\n" +
		"• /report SYMBOL: all strategies\n" +
		"• /dca SYMBOL\n" +
		"• /dip SYMBOL\n" +
		"• /trend SYMBOL\n" +
		"• /history SYMBOL: recent recorded runs\n" +
		"Tracked: " + strings.Join(symbols, ", ")
}
