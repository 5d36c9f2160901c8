package o11y

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	httpDuration *prometheus.HistogramVec
	authTotal    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "cpfauth_http_request_duration_seconds",
			Help: "HTTP request latency by path and status.",
		}, []string{"path", "status"}),
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpfauth_auth_requests_total",
			Help: "Authentication requests by phase and outcome.",
		}, []string{"phase", "outcome"}),
	}
	m.registry.MustRegister(m.httpDuration, m.authTotal)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAuth(phase, outcome string) {
	m.authTotal.WithLabelValues(phase, outcome).Inc()
}

// Middleware records request latency per path and status.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			m.httpDuration.
				WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
