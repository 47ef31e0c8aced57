// Package analysis runs every strategy simulator over one collected history
// and assembles the results into a Report.
package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/metrics"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/montecarlo"
	"StrategySentinel/internal/strategy"
)

// Request carries the simulator parameters for one run.
// An empty Strategies list runs every simulator.
type Request struct {
	Strategies []model.StrategyKind
	DCA        strategy.DcaParams
	Dip        strategy.DipParams
	Trend      strategy.TrendParams
	MonteCarlo montecarlo.Config
	Trigger    model.TriggerType
}

// Report is the combined output of one analysis run. Simulators that were not
// requested are left nil.
type Report struct {
	Symbol          string                                        `json:"symbol"`
	Summary         string                                        `json:"summary"`
	Trigger         model.TriggerType                             `json:"trigger"`
	GeneratedAt     time.Time                                     `json:"generatedAt"`
	Stats           model.HistoryStats                            `json:"stats"`
	Indicators      model.Indicators                              `json:"indicators"`
	Forecast        []model.PathPoint                             `json:"forecast"`
	DCA             *model.AnalysisPackage[model.DcaProjection]   `json:"dca,omitempty"`
	Dip             *model.AnalysisPackage[model.DipProjection]   `json:"dip,omitempty"`
	Trend           *model.AnalysisPackage[model.TrendProjection] `json:"trend,omitempty"`
	TrendProjection *model.AnalysisPackage[model.TrendProjection] `json:"trendProjection,omitempty"`
}

// Service runs the simulators concurrently.
type Service struct {
	log     zerolog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewService creates a Service. m may be nil.
func NewService(log zerolog.Logger, m *metrics.Recorder) *Service {
	return &Service{log: log, metrics: m, now: time.Now}
}

// Analyze fans the requested simulators out over history. Simulators never
// fail, so the only error is a cancelled context.
func (s *Service) Analyze(ctx context.Context, history model.HistoryResult, req Request) (*Report, error) {
	start := s.now()
	report := &Report{
		Symbol:      history.Symbol,
		Summary:     history.Summary,
		Trigger:     req.Trigger,
		GeneratedAt: start.UTC(),
		Stats:       calculator.BuildHistoryStats(history.Candles),
		Indicators:  calculator.BuildIndicators(history.Candles),
	}

	g, gCtx := errgroup.WithContext(ctx)
	run := func(kind model.StrategyKind, fn func()) {
		if !req.wants(kind) {
			return
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fn()
			s.recordRun(kind, history.Symbol)
			return nil
		})
	}

	run(model.StrategyDCA, func() {
		pkg := strategy.SimulateDcaProjection(history, req.DCA)
		report.DCA = &pkg
	})
	run(model.StrategyDip, func() {
		pkg := strategy.SimulateDipProjection(history, req.Dip)
		report.Dip = &pkg
	})
	run(model.StrategyTrend, func() {
		pkg := strategy.SimulateTrendFollowing(history, req.Trend)
		report.Trend = &pkg
	})
	run(model.StrategyTrendProj, func() {
		pkg := strategy.SimulateTrendProjection(history, req.Trend, req.MonteCarlo)
		report.TrendProjection = &pkg
	})
	g.Go(func() error {
		report.Forecast = Forecast(history.Candles, req.MonteCarlo)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.recordError("analyze")
		return nil, fmt.Errorf("analyze %s: %w", history.Symbol, err)
	}

	elapsed := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordLatency("analyze", elapsed.Seconds())
	}
	s.log.Info().
		Str("symbol", history.Symbol).
		Str("trigger", string(req.Trigger)).
		Int("candles", len(history.Candles)).
		Dur("elapsed", elapsed).
		Msg("analysis complete")
	return report, nil
}

// Forecast is the plain GBM path from the last close, using drift and
// volatility estimated from the closes.
func Forecast(candles []model.Candle, mc montecarlo.Config) []model.PathPoint {
	if len(candles) == 0 {
		return []model.PathPoint{}
	}
	last := candles[len(candles)-1]
	start, ok := model.ParseDate(last.Date)
	if !ok {
		return []model.PathPoint{}
	}
	series := calculator.ExtractCloseSeries(candles)
	dv, _ := montecarlo.EstimateDriftAndVolatility(calculator.PointPrices(series))
	mc = mc.Normalized()
	step := float64(mc.StepDays)
	return montecarlo.GeneratePath(last.Close, start.UnixMilli(), dv.Drift*step, dv.Volatility*math.Sqrt(step), mc)
}

// ParseStrategies maps a command argument (dca, dip, trend or all) to the
// simulators it selects. trend selects both trend variants.
func ParseStrategies(arg string) ([]model.StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "all", "report":
		return nil, nil
	case "dca":
		return []model.StrategyKind{model.StrategyDCA}, nil
	case "dip":
		return []model.StrategyKind{model.StrategyDip}, nil
	case "trend":
		return []model.StrategyKind{model.StrategyTrend, model.StrategyTrendProj}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want dca, dip, trend or all)", arg)
}

func (r Request) wants(kind model.StrategyKind) bool {
	if len(r.Strategies) == 0 {
		return true
	}
	for _, k := range r.Strategies {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *Service) recordRun(kind model.StrategyKind, symbol string) {
	if s.metrics != nil {
		s.metrics.RecordSimulation(string(kind), symbol)
	}
}

func (s *Service) recordError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordError(kind)
	}
}
