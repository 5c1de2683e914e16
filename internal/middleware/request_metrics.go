package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fitcoach/coach/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func(begin time.Time) {
				metricsManager.HistRequestDuration.Observe(time.Since(begin).Seconds())
			}(time.Now())

			rw := newStatusRecorder(w)

			next.ServeHTTP(rw, r)

			metricsManager.CounterRequests.With(
				prometheus.Labels{
					"method": r.Method,
					"status": strconv.Itoa(rw.statusCode),
				},
			).Inc()
		})
	}
}
