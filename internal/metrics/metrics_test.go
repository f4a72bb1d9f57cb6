package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogout()
	c.RecordPageRender(true)
	c.RecordPageRender(false)
	c.RecordPageRender(false)
	c.RecordRateLimited("login")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pageRenders.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.pageRenders.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited.WithLabelValues("login")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogout()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "harapan_logouts_total 1")
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordLogin(true)
	r.RecordLogout()
	r.RecordPageRender(false)
	r.RecordRateLimited("login")
}
