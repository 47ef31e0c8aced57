package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"StrategySentinel/internal/metrics"
	"StrategySentinel/internal/model"
)

const (
	DefaultHistoryDays  = 365
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 2 * time.Second
)

// Collector fetches and normalizes daily history for a symbol.
type Collector struct {
	fetcher    Fetcher
	market     string
	days       int
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	log        zerolog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithRateLimit caps upstream requests per second. perSecond <= 0 disables the limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Collector) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetry sets the retry count and the base of the exponential backoff.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Collector) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithHistoryDays sets how many daily candles are requested.
func WithHistoryDays(days int) Option {
	return func(c *Collector) {
		if days > 0 {
			c.days = days
		}
	}
}

// WithMarket labels the results with the upstream market or index name.
func WithMarket(market string) Option {
	return func(c *Collector) { c.market = market }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Collector) { c.log = log }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Collector) { c.metrics = m }
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher:    fetcher,
		market:     fetcher.Name(),
		days:       DefaultHistoryDays,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultRetryBackoff,
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches daily candles for symbol and returns them sorted ascending
// with duplicate dates removed, ready for the simulators.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.HistoryResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.HistoryResult{}, fmt.Errorf("collect: empty symbol")
	}
	start := c.now()

	raw, err := c.fetchWithRetry(ctx, symbol)
	if err != nil {
		c.recordError("fetch")
		return model.HistoryResult{}, fmt.Errorf("collect %s: %w", symbol, err)
	}
	candles := NormalizeCandles(raw)
	if len(candles) == 0 {
		c.recordError("fetch")
		return model.HistoryResult{}, fmt.Errorf("collect %s: %w", symbol, ErrNoData)
	}
	if dropped := len(raw) - len(candles); dropped > 0 {
		c.log.Warn().Str("symbol", symbol).Int("dropped", dropped).Msg("dropped malformed or duplicate candles")
	}

	result := model.HistoryResult{
		Symbol:     symbol,
		Instrument: Instrument(symbol),
		Market:     c.market,
		StartDate:  candles[0].Date,
		EndDate:    candles[len(candles)-1].Date,
		Candles:    candles,
		FetchedAt:  c.now().UTC(),
	}
	result.Summary = Summarize(result)

	if c.metrics != nil {
		c.metrics.RecordLastClose(symbol, candles[len(candles)-1].Close)
		c.metrics.RecordLatency("collect", c.now().Sub(start).Seconds())
	}
	c.log.Info().
		Str("symbol", symbol).
		Str("source", c.fetcher.Name()).
		Int("candles", len(candles)).
		Str("start", result.StartDate).
		Str("end", result.EndDate).
		Msg("history collected")
	return result, nil
}

func (c *Collector) fetchWithRetry(ctx context.Context, symbol string) ([]model.Candle, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.log.Warn().Err(lastErr).Str("symbol", symbol).Int("attempt", attempt).Dur("backoff", wait).Msg("retrying fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		candles, err := c.fetcher.FetchDailyCandles(ctx, symbol, c.days)
		if err == nil {
			return candles, nil
		}
		lastErr = err
		if errors.Is(err, ErrRateLimited) {
			c.recordError("rate_limited")
		}
		if !retryable(ctx, err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrNoData) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Collector) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}

// NormalizeCandles drops candles with an unparseable date or a non-positive
// close, sorts ascending and keeps the last candle seen for each date.
func NormalizeCandles(raw []model.Candle) []model.Candle {
	byDate := make(map[string]model.Candle, len(raw))
	for _, c := range raw {
		if _, ok := model.ParseDate(c.Date); !ok || !(c.Close > 0) {
			continue
		}
		byDate[c.Date] = c
	}
	out := make([]model.Candle, 0, len(byDate))
	for _, c := range byDate {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Summarize renders a one-line description of a history result.
func Summarize(h model.HistoryResult) string {
	if len(h.Candles) == 0 {
		return fmt.Sprintf("%s: no daily candles", h.Symbol)
	}
	first := h.Candles[0].Close
	last := h.Candles[len(h.Candles)-1].Close
	change := 0.0
	if first > 0 {
		change = (last/first - 1) * 100
	}
	return fmt.Sprintf("%s (%s, %s): %d daily candles from %s to %s, close %.2f -> %.2f (%+.2f%%)",
		h.Symbol, h.Instrument, h.Market, len(h.Candles), h.StartDate, h.EndDate, first, last, change)
}
