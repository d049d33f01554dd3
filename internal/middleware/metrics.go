package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records RED metrics for every HTTP request, labelled by the
// matched route pattern rather than the raw path.
type Metrics struct {
	reqs *prometheus.CounterVec
	durs *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	const namespace = "catalog"
	const subsystem = "http"

	m := &Metrics{
		reqs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Number of HTTP requests served",
		}, []string{"method", "route", "code"}),
		durs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latencies",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 8),
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.reqs, m.durs)
	return m
}

func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.reqs.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.durs.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routePattern is only complete once the router has matched the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
