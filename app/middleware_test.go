package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestApplication() *application {
	return &application{
		config: &Config{
			Environment:    "test",
			Version:        "test",
			LimiterRPS:     2,
			LimiterBurst:   2,
			LimiterEnabled: true,
		},
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	// The burst admits two requests; the third is rejected.
	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)
		assert.Equal(t, want, res.Code, "request %d", i+1)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	app := newTestApplication()
	app.config.LimiterEnabled = false

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.3:4000"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	app := newTestApplication()

	req := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
	res := httptest.NewRecorder()

	app.healthCheckHandler(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "available")
}
