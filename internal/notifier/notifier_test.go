package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrategySentinel/internal/analysis"
	"StrategySentinel/internal/model"
	"StrategySentinel/internal/recorder"
)

func testNotifier(url string) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.APIURL = url
	n.Backoff = time.Millisecond
	return n
}

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "42", payload["chat_id"])
		assert.Equal(t, "hello", payload["text"])
		assert.Equal(t, "HTML", payload["parse_mode"])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, testNotifier(srv.URL).Send(context.Background(), "hello"))
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, testNotifier(srv.URL).SendWithRetry(context.Background(), "hi", 3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testNotifier(srv.URL).SendWithRetry(context.Background(), "hi", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPollOnce(t *testing.T) {
	var replies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /dca btc "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/silent"}}
			]}`))
		case "/botTOKEN/sendMessage":
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			replies = append(replies, payload["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	var commands []string
	handler := func(_ context.Context, cmd string) string {
		commands = append(commands, cmd)
		if cmd == "/silent" {
			return ""
		}
		return "reply to " + cmd
	}
	next, err := testNotifier(srv.URL).pollOnce(context.Background(), 7, 0, handler)
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/dca btc", "/silent"}, commands)
	assert.Equal(t, []string{"reply to /dca btc"}, replies)
}

func TestFormatReport(t *testing.T) {
	r := &analysis.Report{
		Symbol:      "BTC",
		Summary:     "BTC <USD>",
		GeneratedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Indicators:  model.Indicators{CurrentPrice: 61000, RSI14: 44, Position52w: 0.62},
		Dip: &model.AnalysisPackage[model.DipProjection]{
			Projection: model.DipProjection{Windows: []model.DipWindow{
				{WindowStart: "2024-07-02", WindowEnd: "2024-07-24", Allocation: 1000, ExpectedPrice: 54900},
			}},
			Metrics: []model.AnalysisMetric{{ID: "trigger_count", Label: "Historical dip triggers", Value: 0, Unit: model.UnitCount}},
		},
	}
	msg := FormatReport(r)
	assert.Contains(t, msg, "<b>StrategySentinel BTC</b> | 2024-07-01")
	assert.Contains(t, msg, "BTC &lt;USD&gt;")
	assert.Contains(t, msg, "52w range: 0.00 - 0.00 (62%)")
	assert.Contains(t, msg, "Buy the dip")
	assert.Contains(t, msg, "Historical dip triggers: 0")
	assert.Contains(t, msg, "window 2024-07-02 → 2024-07-24: $1000.00 @ ≤54900.00")
	assert.NotContains(t, msg, "DCA")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No recorded runs for ETH yet.", FormatHistory("ETH", nil))

	runs := []recorder.RunSummary{{
		Trigger:      model.TriggerCommand,
		RecordedAt:   time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC),
		CurrentPrice: 3100,
		Metrics:      map[string]float64{recorder.MetricKey(model.StrategyTrend, "total_return_pct"): 12.34},
	}}
	msg := FormatHistory("ETH", runs)
	assert.Contains(t, msg, "2024-07-01 08:30 [command] price 3100.00 | trend +12.3%")
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ BTC analysis failed: a &lt; b", FormatError("BTC", errors.New("a < b")))
	assert.Contains(t, HelpText([]string{"BTC", "ETH"}), "Tracked: BTC, ETH")
}
