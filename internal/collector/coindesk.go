package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"StrategySentinel/internal/model"
)

// DefaultCoindeskURL is the CoinDesk data API root.
const DefaultCoindeskURL = "https://data-api.coindesk.com"

// CoindeskFetcher implements Fetcher using the CoinDesk index daily history API.
type CoindeskFetcher struct {
	BaseURL string
	APIKey  string
	Market  string
	Client  *http.Client
}

// NewCoindeskFetcher creates a new fetcher with optional proxy support.
func NewCoindeskFetcher(baseURL, apiKey, market, proxyURL string) *CoindeskFetcher {
	if baseURL == "" {
		baseURL = DefaultCoindeskURL
	}
	if market == "" {
		market = "cadli"
	}
	return &CoindeskFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Market:  market,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *CoindeskFetcher) Name() string { return "coindesk" }

// Instrument maps a symbol to the USD pair the index is quoted in.
func Instrument(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(s, "-") {
		return s
	}
	return s + "-USD"
}

// coindeskDays is the response shape of /index/cc/v1/historical/days.
type coindeskDays struct {
	Data []struct {
		Timestamp int64   `json:"TIMESTAMP"`
		Open      float64 `json:"OPEN"`
		High      float64 `json:"HIGH"`
		Low       float64 `json:"LOW"`
		Close     float64 `json:"CLOSE"`
	} `json:"Data"`
	Err struct {
		Type    int    `json:"type"`
		Message string `json:"message"`
	} `json:"Err"`
}

func (f *CoindeskFetcher) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("market", f.Market)
	q.Set("instrument", Instrument(symbol))
	q.Set("limit", strconv.Itoa(days))
	q.Set("groups", "OHLC")
	endpoint := f.BaseURL + "/index/cc/v1/historical/days?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Apikey "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coindesk fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("coindesk: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coindesk: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload coindeskDays
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("coindesk decode: %w", err)
	}
	if payload.Err.Message != "" {
		return nil, fmt.Errorf("coindesk api error: %s", payload.Err.Message)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("coindesk %s: %w", symbol, ErrNoData)
	}

	candles := make([]model.Candle, 0, len(payload.Data))
	for _, d := range payload.Data {
		candles = append(candles, model.Candle{
			Date:  unixDate(d.Timestamp),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
		})
	}
	return candles, nil
}
