package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/montecarlo"
)

// SimulateDcaProjection schedules a fixed contribution every IntervalDays over
// DurationDays against a forward price path extrapolated from history, and
// tracks units bought and cost basis.
func SimulateDcaProjection(history model.HistoryResult, p DcaParams) model.AnalysisPackage[model.DcaProjection] {
	pkg := model.AnalysisPackage[model.DcaProjection]{
		History:    buildHistory(history.Candles),
		Projection: model.DcaProjection{Schedule: []model.DcaScheduleEntry{}},
	}
	last, ok := lastPositiveClose(history.Candles)
	if !p.valid() || !ok {
		pkg.Metrics = dcaMetrics(pkg.Projection, 0)
		return pkg
	}

	steps := int(math.Round(p.DurationDays / p.IntervalDays))
	if steps < 1 {
		steps = 1
	}

	dv, _ := montecarlo.EstimateDriftAndVolatility(calculator.PointPrices(pkg.History.Series))
	mod := NewSymbolModulation(history.Symbol, dv.Volatility, p.IntervalDays)
	prices := projectForwardPrices(last.Close, dv.Drift, p.IntervalDays, steps, mod)

	contribution := decimal.NewFromFloat(p.ContributionUSD)
	contributionF := contribution.InexactFloat64()
	cumCost := decimal.Zero
	cumUnits := 0.0
	schedule := make([]model.DcaScheduleEntry, 0, steps)
	prevOffset := 0
	for i := 1; i <= steps; i++ {
		// Sub-day intervals would round onto the same date; keep one entry per day.
		offset := int(math.Round(p.IntervalDays * float64(i)))
		if offset <= prevOffset {
			offset = prevOffset + 1
		}
		prevOffset = offset
		price := prices[i-1]
		units := safeDiv(contributionF, price)
		cumUnits += units
		cumCost = cumCost.Add(contribution)
		cost := cumCost.InexactFloat64()
		schedule = append(schedule, model.DcaScheduleEntry{
			Date:            model.AddDays(last.Date, offset),
			Price:           price,
			Contribution:    contributionF,
			Units:           units,
			CumulativeUnits: cumUnits,
			CumulativeCost:  cost,
			CostBasis:       safeDiv(cost, cumUnits),
		})
	}

	final := schedule[len(schedule)-1]
	proj := model.DcaProjection{
		Schedule:          schedule,
		TotalContribution: contribution.Mul(decimal.NewFromInt(int64(steps))).InexactFloat64(),
		ProjectedHoldings: final.CumulativeUnits,
		ProjectedValue:    final.CumulativeUnits * final.Price,
		AverageCostBasis:  final.CostBasis,
	}
	if proj.TotalContribution > 0 {
		proj.ProjectedReturnPct = (proj.ProjectedValue/proj.TotalContribution - 1) * 100
	}
	pkg.Projection = proj
	pkg.Metrics = dcaMetrics(proj, last.Close)
	return pkg
}

func dcaMetrics(p model.DcaProjection, lastPrice float64) []model.AnalysisMetric {
	return []model.AnalysisMetric{
		metric("total_contribution", "Total contribution", p.TotalContribution, model.UnitUSD),
		metric("contribution_count", "Scheduled contributions", float64(len(p.Schedule)), model.UnitCount),
		metric("projected_holdings", "Projected holdings", p.ProjectedHoldings, model.UnitUnits),
		metric("projected_value", "Projected value", p.ProjectedValue, model.UnitUSD),
		metric("average_cost_basis", "Average cost basis", p.AverageCostBasis, model.UnitUSD),
		metric("projected_return_pct", "Projected return", p.ProjectedReturnPct, model.UnitPercent),
		metric("last_price", "Last observed price", lastPrice, model.UnitUSD),
	}
}
