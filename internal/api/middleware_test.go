package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"item-appraiser/internal/health"
	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
)

func TestRecovery_ReturnsServerErrorAndFlagsHealth(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := RequestLogger(logger, reg)(Recovery(logger, reg)(panicky))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, int64(1), reg.Value(metrics.HTTPPanicsTotal))
	assert.Equal(t, int64(1), reg.Value(metrics.HTTPErrorsTotal))

	report := health.NewAnalyzer(reg, logger).Analyze()
	assert.Equal(t, health.StatusCritical, report.OverallStatus)
}

func TestRequestLogger_RequestID(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequestLogger(logger, reg)(ok)

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Len(t, rec.Header().Get(requestIDHeader), 36)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})

	assert.Equal(t, int64(2), reg.Value(metrics.HTTPRequestsTotal))
	assert.Equal(t, int64(0), reg.Value(metrics.HTTPErrorsTotal))
}
