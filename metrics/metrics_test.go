package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ConnectionsAccepted.Inc()
	m.ConnectionsActive.Set(2)
	m.RecordMessage("login")
	m.RecordMessage("login")
	m.RecordMessage("user")
	m.RecordError("write")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConnectionsAccepted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesReceived.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesReceived.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("write")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Handshakes.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Handshakes))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.FramesBroadcast.Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatrelay_messages_frames_written_total 3")
}
