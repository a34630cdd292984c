package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware_LabelsByRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(HTTPMiddleware)
	r.HandleFunc("/calendars/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/calendars/{id:[0-9]+}", "404"))

	for _, path := range []string{"/calendars/1", "/calendars/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/calendars/{id:[0-9]+}", "404"))
	assert.Equal(t, before+2, after)
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &StatusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, err := rec.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Status)
}

func TestObserveStoreOperation_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("test_op"))

	var ok error
	ObserveStoreOperation("test_op", time.Now(), &ok)
	failed := errors.New("boom")
	ObserveStoreOperation("test_op", time.Now(), &failed)

	assert.Equal(t, before+1, testutil.ToFloat64(StoreOperationErrors.WithLabelValues("test_op")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	EventMutations.WithLabelValues("create").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "eventcal_events_mutations_total"))
}
