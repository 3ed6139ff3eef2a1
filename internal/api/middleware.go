package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger attaches a request-scoped zerolog logger carrying the
// request id and logs every request once it is served.
func RequestLogger(logger *logs.Logger, reg *metrics.Registry) func(http.Handler) http.Handler {
	base := logger.Zerolog()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rid := r.Header.Get(requestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, rid)

			zl := base.With().
				Str("request_id", rid).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_ip", r.RemoteAddr).
				Logger()
			r = r.WithContext(zl.WithContext(r.Context()))

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			reg.Inc(metrics.HTTPRequestsTotal)

			if rw.status >= 500 {
				reg.Inc(metrics.HTTPErrorsTotal)
				zl.Error().
					Int("status", rw.status).
					Dur("duration", duration).
					Msg("http request failed")
				return
			}
			zl.Info().
				Int("status", rw.status).
				Dur("duration", duration).
				Msg("http request served")
		})
	}
}

// Recovery turns a handler panic into a 500. The panic is recorded in
// the in-memory log so the health report picks it up.
func Recovery(logger *logs.Logger, reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					reg.Inc(metrics.HTTPPanicsTotal)
					logger.Error(fmt.Sprintf("panic recovered: %v %s %s", err, r.Method, r.URL.Path))
					logger.Debug(string(debug.Stack()))
					respondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ResponseWriter wrapper
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
