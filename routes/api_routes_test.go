package routes

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/chatrelay/errors"
	"github.com/LilVoxy/chatrelay/logger"
	"github.com/LilVoxy/chatrelay/metrics"
	"github.com/LilVoxy/chatrelay/websocket"
)

type fakeRelay struct {
	status websocket.Status
	err    error
}

func (f fakeRelay) Status(context.Context) (websocket.Status, error) {
	return f.status, f.err
}

type fakeEvents struct {
	records []logger.Record
	err     error
	limit   int
}

func (f *fakeEvents) Recent(_ context.Context, limit int) ([]logger.Record, error) {
	f.limit = limit
	return f.records, f.err
}

func newRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()
	SetupRoutes(router, deps)
	return router
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, newRouter(Deps{Relay: fakeRelay{}}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusAndUsers(t *testing.T) {
	relay := fakeRelay{status: websocket.Status{Connections: 3, Handshaken: 2, Users: []string{"alice", "bob"}}}
	router := newRouter(Deps{Relay: relay})

	rr := do(t, router, http.MethodGet, "/api/status")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"connections":3,"handshaken":2,"users":["alice","bob"]}`, rr.Body.String())

	rr = do(t, router, http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"users":["alice","bob"]}`, rr.Body.String())
}

func TestStatus_Errors(t *testing.T) {
	rr := do(t, newRouter(Deps{Relay: fakeRelay{err: errors.ErrServerClosed}}), http.MethodGet, "/api/status")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = do(t, newRouter(Deps{Relay: fakeRelay{err: context.DeadlineExceeded}}), http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	rr := do(t, newRouter(Deps{Relay: fakeRelay{}}), http.MethodOptions, "/api/status")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "GET, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestEvents(t *testing.T) {
	events := &fakeEvents{records: []logger.Record{
		{Category: logger.CategoryError, Tag: "err_accept", Code: 24, Message: "boom"},
	}}
	router := newRouter(Deps{Relay: fakeRelay{}, Events: events})

	rr := do(t, router, http.MethodGet, "/api/events")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, defaultEventsLimit, events.limit)

	var resp EventsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "err_accept", resp.Events[0].Tag)

	rr = do(t, router, http.MethodGet, "/api/events?limit=5")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, events.limit)

	for _, bad := range []string{"0", "-1", "abc", "501"} {
		rr = do(t, router, http.MethodGet, "/api/events?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
	}

	events.err = stderrors.New("db down")
	rr = do(t, router, http.MethodGet, "/api/events")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestEvents_DisabledWithoutSource(t *testing.T) {
	rr := do(t, newRouter(Deps{Relay: fakeRelay{}}), http.MethodGet, "/api/events")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.Handshakes.Inc()

	rr := do(t, newRouter(Deps{Relay: fakeRelay{}, Metrics: m.Handler()}), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chatrelay_connections_handshakes_total 1")
}
