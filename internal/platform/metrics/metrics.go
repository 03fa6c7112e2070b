package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	admissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultation_admissions_total",
			Help: "Total number of consultation admission attempts",
		},
		[]string{"shift", "outcome"},
	)

	clinicalAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinical_alerts_total",
			Help: "Total number of clinical alerts raised on admission",
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus metrics endpoint handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// Middleware records request counts and latencies per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}

			// Use the route template, not the raw path, to bound cardinality.
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordAdmission records the outcome of one admission attempt
// ("admitted", "capacity_exceeded", "outside_hours", "invalid").
func RecordAdmission(shift, outcome string) {
	admissionsTotal.WithLabelValues(shift, outcome).Inc()
}

// RecordClinicalAlert records one raised vital-sign alert by kind.
func RecordClinicalAlert(kind string) {
	clinicalAlertsTotal.WithLabelValues(kind).Inc()
}
