package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights/internal/platform/metrics"
	"knights/pkg/requestcontext"
	"knights/pkg/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	testutil.Given(t, "no incoming id", func(t *testing.T) {
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})

	testutil.Given(t, "an incoming id", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set(RequestIDHeader, "req-42")
		rr := testutil.DoRequest(h, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rr.Header().Get(RequestIDHeader))
	})
}

func TestRequestTime(t *testing.T) {
	var now time.Time
	h := RequestTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now = requestcontext.Now(r.Context())
	}))

	before := time.Now()
	testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))
	assert.False(t, now.Before(before))
}

func TestRecovery(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	h := Recovery(discard, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("lance snapped")
	}))

	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.PanicsRecovered))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/v1/knights"))

	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/v1/knights")
}

func TestTimeout(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))
	assert.True(t, hasDeadline)
}

func TestContentTypeJSON(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := ContentTypeJSON(ok)

	testutil.When(t, "a body is sent as plain text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	testutil.When(t, "a body is sent as JSON", func(t *testing.T) {
		rr := testutil.DoRequest(h, testutil.NewRequestWithBody(t, http.MethodPost, "/", `{}`))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	testutil.When(t, "there is no body", func(t *testing.T) {
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodDelete, "/"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})
}

func TestLatencyUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)

	r := chi.NewRouter()
	r.Use(Latency(m))
	r.Get("/v1/knights/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/v1/knights/abc"))

	assert.Equal(t, 1, promtestutil.CollectAndCount(m.RequestDuration))
	_, err := m.RequestDuration.GetMetricWithLabelValues(http.MethodGet, "/v1/knights/{id}", "4xx")
	require.NoError(t, err)
}
