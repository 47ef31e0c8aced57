package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoindeskFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index/cc/v1/historical/days", r.URL.Path)
		assert.Equal(t, "cadli", r.URL.Query().Get("market"))
		assert.Equal(t, "BTC-USD", r.URL.Query().Get("instrument"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "Apikey secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"Data":[
			{"TIMESTAMP":1704067200,"OPEN":42000,"HIGH":42900,"LOW":41800,"CLOSE":42500},
			{"TIMESTAMP":1704153600,"OPEN":42500,"HIGH":45000,"LOW":42400,"CLOSE":44900}
		],"Err":{}}`))
	}))
	defer srv.Close()

	f := NewCoindeskFetcher(srv.URL+"/", "secret", "", "")
	candles, err := f.FetchDailyCandles(context.Background(), "btc", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, "2024-01-01", candles[0].Date)
	assert.Equal(t, 42500.0, candles[0].Close)
	assert.Equal(t, "2024-01-02", candles[1].Date)
	assert.Equal(t, "coindesk", f.Name())
}

func TestCoindeskFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"rate limited", http.StatusTooManyRequests, ``, ErrRateLimited},
		{"empty data", http.StatusOK, `{"Data":[],"Err":{}}`, ErrNoData},
		{"api error", http.StatusOK, `{"Data":[],"Err":{"type":1,"message":"unknown instrument"}}`, nil},
		{"server error", http.StatusInternalServerError, `oops`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewCoindeskFetcher(srv.URL, "", "cadli", "").FetchDailyCandles(context.Background(), "BTC", 5)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestYahooFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1704067200,1704153600,1704240000],
			"indicators":{"quote":[{"open":[1,null,3],"high":[1,null,3],"low":[1,null,3],"close":[1.5,null,3.5]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	candles, err := f.FetchDailyCandles(context.Background(), "btc", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, "2024-01-01", candles[0].Date)
	assert.Equal(t, "2024-01-03", candles[1].Date)
	assert.Equal(t, 3.5, candles[1].Close)
}

func TestYahooFetcher_Alias(t *testing.T) {
	f := NewYahooFetcher("")
	assert.Equal(t, "^GSPC", f.yahooSymbol("spx500"))
	assert.Equal(t, "ETH-USD", f.yahooSymbol("ETH"))
	assert.Equal(t, "5y", yahooRange(1000))
	assert.Equal(t, "1y", yahooRange(365))
}

func TestYahooFetcher_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyCandles(context.Background(), "BTC", 30)
	assert.ErrorIs(t, err, ErrNoData)
}
