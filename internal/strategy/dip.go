package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
)

// maxProjectedWindows caps how many future dip windows share the budget.
const maxProjectedWindows = 3

// IdentifyDipTriggers records every day whose close sits at least dipThreshold
// (a fraction) below the rolling high of the trailing lookbackWindowDays.
// Triggers are not spaced or deduplicated; see SimulateDipOverlay for the
// spaced variant.
func IdentifyDipTriggers(history []model.Candle, dipThreshold float64, lookbackWindowDays int) []model.DipTrigger {
	triggers := []model.DipTrigger{}
	if !positive(dipThreshold) {
		return triggers
	}
	highs := calculator.ComputeRollingHighs(history, lookbackWindowDays)
	for i, c := range history {
		high := highs[i]
		if !positive(c.Close) || !positive(high) {
			continue
		}
		drawdown := (c.Close - high) / high
		if drawdown <= -dipThreshold {
			triggers = append(triggers, model.DipTrigger{Date: c.Date, Drawdown: drawdown, Price: c.Close})
		}
	}
	return triggers
}

// AverageTriggerInterval returns the mean number of calendar days between
// consecutive triggers, or 0 when fewer than two triggers have valid dates.
func AverageTriggerInterval(triggers []model.DipTrigger) float64 {
	gaps := make([]float64, 0, len(triggers))
	for i := 1; i < len(triggers); i++ {
		prev, ok1 := model.ParseDate(triggers[i-1].Date)
		cur, ok2 := model.ParseDate(triggers[i].Date)
		if !ok1 || !ok2 {
			continue
		}
		gaps = append(gaps, cur.Sub(prev).Hours()/24)
	}
	return calculator.Mean(gaps)
}

// ProjectDipWindows spreads the budget over future buying windows starting the
// day after lastDate. Without historical triggers the whole budget goes to one
// window a quarter of the projection horizon long. Otherwise the number of
// windows is floor(horizon / average interval) clamped to [1, 3], split evenly,
// and window k covers days (avg*(k-1), avg*k] clamped to the horizon. A single
// trigger has no interval, so the horizon itself is used as the interval.
func ProjectDipWindows(triggers []model.DipTrigger, lastDate string, referencePrice float64, p DipParams) ([]model.DipWindow, float64) {
	windows := []model.DipWindow{}
	if !p.valid() {
		return windows, 0
	}
	horizon := p.ProjectionWindowDays
	budget := decimal.NewFromFloat(p.TotalBudget)
	expected := math.Max(0, referencePrice*(1-p.DipThreshold))

	if len(triggers) == 0 {
		end := int(math.Round(float64(horizon) / 4))
		if end < 1 {
			end = 1
		}
		windows = append(windows, model.DipWindow{
			WindowStart:   model.AddDays(lastDate, 1),
			WindowEnd:     model.AddDays(lastDate, end),
			Allocation:    budget.InexactFloat64(),
			ExpectedPrice: expected,
		})
		return windows, 0
	}

	avg := AverageTriggerInterval(triggers)
	if !positive(avg) {
		avg = float64(horizon)
	}
	count := int(math.Floor(float64(horizon) / avg))
	if count < 1 {
		count = 1
	}
	if count > maxProjectedWindows {
		count = maxProjectedWindows
	}

	share := budget.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
	for k := 1; k <= count; k++ {
		end := int(math.Round(avg * float64(k)))
		if end > horizon {
			end = horizon
		}
		if end < 1 {
			end = 1
		}
		start := int(math.Round(avg*float64(k-1))) + 1
		if start > end {
			start = end
		}
		windows = append(windows, model.DipWindow{
			WindowStart:   model.AddDays(lastDate, start),
			WindowEnd:     model.AddDays(lastDate, end),
			Allocation:    share,
			ExpectedPrice: expected,
		})
	}
	return windows, avg
}

// SimulateDipProjection detects historical dip triggers, projects future
// buying windows from their cadence, and attaches the spaced point overlay
// used for charting.
func SimulateDipProjection(history model.HistoryResult, p DipParams) model.AnalysisPackage[model.DipProjection] {
	pkg := model.AnalysisPackage[model.DipProjection]{
		History: buildHistory(history.Candles),
		Projection: model.DipProjection{
			Triggers: []model.DipTrigger{},
			Windows:  []model.DipWindow{},
			Overlay:  emptyOverlay(),
		},
	}
	last, ok := lastPositiveClose(history.Candles)
	if !p.valid() || !ok {
		pkg.Metrics = dipMetrics(p, pkg.Projection, 0)
		return pkg
	}

	triggers := IdentifyDipTriggers(history.Candles, p.DipThreshold, p.LookbackWindowDays)
	highs := calculator.ComputeRollingHighs(history.Candles, p.LookbackWindowDays)
	reference := highs[len(highs)-1]
	if !positive(reference) {
		reference = last.Close
	}
	windows, avg := ProjectDipWindows(triggers, history.Candles[len(history.Candles)-1].Date, reference, p)

	allocated := decimal.Zero
	for _, w := range windows {
		allocated = allocated.Add(decimal.NewFromFloat(w.Allocation))
	}
	unallocated := decimal.NewFromFloat(p.TotalBudget).Sub(allocated).Round(8)

	proj := model.DipProjection{
		Triggers:            triggers,
		Windows:             windows,
		AverageIntervalDays: avg,
		AllocatedBudget:     allocated.InexactFloat64(),
		UnallocatedBudget:   unallocated.InexactFloat64(),
		Overlay:             SimulateDipOverlay(pkg.History.Series, p.TotalBudget, p.DipThreshold*100),
	}
	pkg.Projection = proj
	pkg.Metrics = dipMetrics(p, proj, maxDrawdownPct(triggers))
	return pkg
}

// maxDrawdownPct returns the deepest trigger drawdown in percent (<= 0).
func maxDrawdownPct(triggers []model.DipTrigger) float64 {
	deepest := 0.0
	for _, t := range triggers {
		if t.Drawdown < deepest {
			deepest = t.Drawdown
		}
	}
	return deepest * 100
}

func dipMetrics(p DipParams, proj model.DipProjection, deepestPct float64) []model.AnalysisMetric {
	budget := 0.0
	if len(proj.Windows) > 0 {
		budget = p.TotalBudget
	}
	expectedUnits := 0.0
	for _, w := range proj.Windows {
		expectedUnits += safeDiv(w.Allocation, w.ExpectedPrice)
	}
	return []model.AnalysisMetric{
		metric("total_budget", "Total budget", budget, model.UnitUSD),
		metric("trigger_count", "Historical dip triggers", float64(len(proj.Triggers)), model.UnitCount),
		metric("average_interval_days", "Average days between dips", proj.AverageIntervalDays, model.UnitDays),
		metric("projected_window_count", "Projected buying windows", float64(len(proj.Windows)), model.UnitCount),
		metric("allocated_budget", "Allocated budget", proj.AllocatedBudget, model.UnitUSD),
		metric("unallocated_budget", "Unallocated budget", proj.UnallocatedBudget, model.UnitUSD),
		metric("deepest_drawdown_pct", "Deepest historical dip", deepestPct, model.UnitPercent),
		metric("expected_units", "Expected units bought", expectedUnits, model.UnitUnits),
		metric("overlay_buy_count", "Spaced dip buys", float64(len(proj.Overlay.Buys)), model.UnitCount),
		metric("overlay_average_price", "Spaced dip average price", proj.Overlay.AveragePrice, model.UnitUSD),
	}
}
