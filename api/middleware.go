package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"chatline/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Instrument logs every request and records its latency on the histogram,
// labelled by the chi route pattern so path parameters do not explode the
// cardinality.
func Instrument(log *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			metrics.RequestDuration.
				WithLabelValues(route, strconv.Itoa(ww.Status())).
				Observe(elapsed.Seconds())
			log.Debug("http request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"duration", elapsed,
			)
		})
	}
}
