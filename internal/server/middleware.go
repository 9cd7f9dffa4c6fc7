package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ieti-edutrack/apiserver/internal/observability"
	"github.com/rs/zerolog"
)

// requestLogger records one structured line and the request metrics per
// request. Routes are labelled by their chi pattern to keep cardinality low.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	observability.RegisterMetrics()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)

			observability.HTTPRequests().WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			observability.HTTPLatency().WithLabelValues(r.Method, route).Observe(duration.Seconds())

			event := logger.Info()
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case status >= http.StatusBadRequest:
				event = logger.Warn()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Float64("latency_ms", float64(duration.Microseconds())/1000.0).
				Str("remote_addr", r.RemoteAddr).
				Msg("request")
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
