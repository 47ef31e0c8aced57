package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.RecordSimulation("dca", "BTC")
	r.RecordSimulation("dca", "BTC")
	r.RecordError("fetch")
	r.RecordLastClose("BTC", 64000)
	r.RecordLatency("analyze", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.simulationRuns.WithLabelValues("dca", "BTC")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("fetch")))
	assert.Equal(t, 64000.0, testutil.ToFloat64(r.lastClose.WithLabelValues("BTC")))

	// Independent registries do not collide.
	other := New()
	other.RecordSimulation("dca", "BTC")
	assert.Equal(t, 1.0, testutil.ToFloat64(other.simulationRuns.WithLabelValues("dca", "BTC")))
}

func TestHandler(t *testing.T) {
	r := New()
	r.RecordLastClose("ETH", 3100)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sentinel_last_close{symbol="ETH"} 3100`)
}
