package middleware

import (
	"net/http"
	"strconv"
	"time"

	"barberbook/pkg/metrics"
)

// RouteLabeler maps a request to a bounded route label. Raw paths carry ids
// and would explode metric cardinality.
type RouteLabeler func(r *http.Request) string

func HTTPMetrics(m *metrics.Metrics, route RouteLabeler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			label := "unmatched"
			if route != nil {
				label = route(r)
			}
			m.HTTPRequestsTotal.WithLabelValues(label, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(label, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
