package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StrategySentinel/internal/model"
)

var (
	// ErrNoData is returned when the upstream answered but carried no usable candles.
	ErrNoData = errors.New("no data returned")
	// ErrRateLimited is returned when the upstream rejected the request with HTTP 429.
	ErrRateLimited = errors.New("rate limited by upstream")
)

// Fetcher defines the interface for fetching daily OHLC candles.
type Fetcher interface {
	FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func unixDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(model.DateLayout)
}
