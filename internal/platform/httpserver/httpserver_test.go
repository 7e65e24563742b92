package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights/pkg/testutil"
)

func TestHealthz(t *testing.T) {
	testutil.Given(t, "no failing checks", func(t *testing.T) {
		h := Healthz(ReadinessCheck{Name: "db", Check: func(context.Context) error { return nil }})
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	testutil.Given(t, "a failing check", func(t *testing.T) {
		h := Healthz(ReadinessCheck{Name: "db", Check: func(context.Context) error { return errors.New("down") }})
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "unavailable")
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New("127.0.0.1:0", http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, logger, srv, time.Second) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunRequiresAddr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := Run(context.Background(), logger, &http.Server{}, time.Second)
	assert.Error(t, err)
}
