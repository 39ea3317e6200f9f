package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smartfarm_client"

// Metrics holds the client-side request metrics.
type Metrics struct {
	// RequestsTotal counts completed requests.
	// Labels: method, route (numeric segments collapsed to ":id"), status
	// ("2xx", "4xx", ..., or "error" for transport failures).
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures round-trip latency.
	RequestDuration *prometheus.HistogramVec

	// UnauthorizedTotal counts 401 responses that triggered a session purge.
	UnauthorizedTotal prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API requests, by method, route, and status class.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "API request round-trip duration.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UnauthorizedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unauthorized_total",
				Help:      "Total number of 401 responses received.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.UnauthorizedTotal)
	}
	return m
}

// Instrument records m for every request.
func Instrument(m *Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			route := routeLabel(r.URL.Path)
			start := time.Now()
			resp, err := next.RoundTrip(r)
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode/100) + "xx"
				if resp.StatusCode == http.StatusUnauthorized {
					m.UnauthorizedTotal.Inc()
				}
			}
			m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			return resp, err
		})
	}
}

// routeLabel collapses numeric path segments so ids don't explode label
// cardinality: /crops/42/image → /crops/:id/image.
func routeLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}
