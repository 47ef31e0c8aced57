package strategy

import (
	"math"
	"time"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/montecarlo"
)

const (
	// TradingDaysPerYear annualizes the Sharpe ratio.
	TradingDaysPerYear = 252
	// ForecastBias tilts the projected path 10% toward the last signal.
	ForecastBias = 0.10
)

// SimulateTrendFollowing runs the moving-average crossover strategy over the
// historical closes, alongside a buy-and-hold baseline.
func SimulateTrendFollowing(history model.HistoryResult, p TrendParams) model.AnalysisPackage[model.TrendProjection] {
	pkg := model.AnalysisPackage[model.TrendProjection]{History: buildHistory(history.Candles)}
	points := validPoints(pkg.History.Series)
	if !p.valid() || len(points) == 0 {
		pkg.Projection = emptyTrend()
		pkg.Metrics = trendMetrics(pkg.Projection, 0)
		return pkg
	}
	pkg.Projection = runCrossover(points, p)
	pkg.Metrics = trendMetrics(pkg.Projection, 0)
	return pkg
}

// SimulateTrendProjection appends a seeded GBM forecast to the historical
// closes, tilted toward the last observed signal, and runs the same crossover
// over the blended series.
func SimulateTrendProjection(history model.HistoryResult, p TrendParams, mc montecarlo.Config) model.AnalysisPackage[model.TrendProjection] {
	pkg := model.AnalysisPackage[model.TrendProjection]{History: buildHistory(history.Candles)}
	points := validPoints(pkg.History.Series)
	if !p.valid() || len(points) == 0 {
		pkg.Projection = emptyTrend()
		pkg.Metrics = trendMetrics(pkg.Projection, 0)
		return pkg
	}

	historical := runCrossover(points, p)
	lastSignal := model.PositionFlat
	if n := len(historical.States); n > 0 {
		lastSignal = historical.States[n-1].Position
	}

	forecast := biasedForecast(points, lastSignal, mc)
	blended := make([]model.TimeSeriesPoint, 0, len(points)+len(forecast))
	blended = append(blended, points...)
	for _, f := range forecast {
		blended = append(blended, model.TimeSeriesPoint{
			Date:  time.UnixMilli(f.X).UTC().Format(model.DateLayout),
			Price: f.Y,
		})
	}

	proj := runCrossover(blended, p)
	proj.ForecastPath = forecast
	proj.ForecastStart = len(points)
	pkg.Projection = proj
	pkg.Metrics = trendMetrics(proj, mc.HorizonDays())
	return pkg
}

// biasedForecast generates the forward path from the last point and tilts it
// linearly so the final step sits ForecastBias above (long) or below (flat)
// the raw simulation.
func biasedForecast(points []model.TimeSeriesPoint, signal model.Position, mc montecarlo.Config) []model.PathPoint {
	last := points[len(points)-1]
	start, ok := model.ParseDate(last.Date)
	if !ok {
		return []model.PathPoint{}
	}
	dv, _ := montecarlo.EstimateDriftAndVolatility(calculator.PointPrices(points))
	mc = mc.Normalized()
	stepDays := float64(mc.StepDays)
	path := montecarlo.GeneratePath(
		last.Price,
		start.UnixMilli(),
		dv.Drift*stepDays,
		dv.Volatility*math.Sqrt(stepDays),
		mc,
	)

	direction := -1.0
	if signal == model.PositionLong {
		direction = 1.0
	}
	for k := range path {
		tilt := 1 + direction*ForecastBias*float64(k+1)/float64(len(path))
		path[k].Y = math.Max(montecarlo.MinPrice, path[k].Y*tilt)
	}
	return path
}

// runCrossover is the single crossover and equity engine shared by both trend
// simulators. points must all carry positive prices.
func runCrossover(points []model.TimeSeriesPoint, p TrendParams) model.TrendProjection {
	prices := calculator.PointPrices(points)
	shortMA := calculator.SimpleMovingAverage(prices, p.ShortWindow)
	longMA := calculator.SimpleMovingAverage(prices, p.LongWindow)

	proj := model.TrendProjection{
		States:        make([]model.TrendState, len(points)),
		Equity:        make([]model.EquityPoint, len(points)),
		ForecastStart: -1,
	}

	hodlUnits := p.Capital / prices[0]
	cash, units := p.Capital, 0.0
	longSteps := 0
	peak := p.Capital
	maxDD := 0.0
	returns := make([]float64, 0, len(points))

	for i, pt := range points {
		pos := model.PositionFlat
		if finite(shortMA[i]) && finite(longMA[i]) && shortMA[i] > longMA[i] {
			pos = model.PositionLong
		}

		switch {
		case pos == model.PositionLong && cash > 0:
			units = cash / pt.Price
			cash = 0
		case pos == model.PositionFlat && units > 0:
			cash = units * pt.Price
			units = 0
		}
		if pos == model.PositionLong {
			longSteps++
		}
		if i > 0 && proj.States[i-1].Position != pos {
			proj.CrossoverCount++
		}

		equity := cash + units*pt.Price
		if i > 0 {
			if prev := proj.Equity[i-1].Strategy; prev > 0 {
				returns = append(returns, equity/prev-1)
			}
		}
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (equity - peak) / peak * 100; dd < maxDD {
				maxDD = dd
			}
		}

		proj.States[i] = model.TrendState{Date: pt.Date, ShortMA: shortMA[i], LongMA: longMA[i], Position: pos}
		proj.Equity[i] = model.EquityPoint{
			Date:     pt.Date,
			Strategy: equity,
			Hodl:     hodlUnits * pt.Price,
			Cash:     cash,
			Units:    units,
		}
	}

	final := proj.Equity[len(proj.Equity)-1]
	proj.FinalEquity = final.Strategy
	proj.HodlEquity = final.Hodl
	proj.TotalReturnPct = (proj.FinalEquity/p.Capital - 1) * 100
	proj.HodlReturnPct = (proj.HodlEquity/p.Capital - 1) * 100
	if sd := calculator.StandardDeviation(returns); sd > 0 {
		proj.Sharpe = calculator.Mean(returns) / sd * math.Sqrt(TradingDaysPerYear)
	}
	proj.MaxDrawdownPct = maxDD
	proj.TimeInMarketPct = float64(longSteps) / float64(len(points)) * 100
	return proj
}

func emptyTrend() model.TrendProjection {
	return model.TrendProjection{
		States:        []model.TrendState{},
		Equity:        []model.EquityPoint{},
		ForecastStart: -1,
	}
}

func trendMetrics(p model.TrendProjection, horizonDays int) []model.AnalysisMetric {
	metrics := []model.AnalysisMetric{
		metric("final_equity", "Strategy final equity", p.FinalEquity, model.UnitUSD),
		metric("total_return_pct", "Strategy return", p.TotalReturnPct, model.UnitPercent),
		metric("hodl_return_pct", "Buy-and-hold return", p.HodlReturnPct, model.UnitPercent),
		metric("sharpe", "Sharpe ratio", p.Sharpe, model.UnitRatio),
		metric("max_drawdown_pct", "Max drawdown", p.MaxDrawdownPct, model.UnitPercent),
		metric("time_in_market_pct", "Time in market", p.TimeInMarketPct, model.UnitPercent),
		metric("crossover_count", "Crossovers", float64(p.CrossoverCount), model.UnitCount),
	}
	if p.ForecastStart >= 0 {
		finalPrice := 0.0
		if n := len(p.ForecastPath); n > 0 {
			finalPrice = p.ForecastPath[n-1].Y
		}
		metrics = append(metrics,
			metric("forecast_horizon_days", "Forecast horizon", float64(horizonDays), model.UnitDays),
			metric("forecast_final_price", "Forecast final price", finalPrice, model.UnitUSD),
		)
	}
	return metrics
}
