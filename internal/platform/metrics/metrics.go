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
	// HTTP metrics
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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Clinical workflow metrics
	visitsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visits_started_total",
			Help: "Total number of visit sessions opened",
		},
		[]string{"service_code"},
	)

	visitsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visits_completed_total",
			Help: "Total number of visit sessions completed",
		},
		[]string{"disposition"},
	)

	vitalAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vital_alerts_total",
			Help: "Total number of vitals findings flagged as alerts",
		},
		[]string{"vital"},
	)

	medicationsBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medications_blocked_total",
			Help: "Total number of medication additions blocked by allergy warnings",
		},
	)
)

// VisitStarted records a new visit session.
func VisitStarted(serviceCode string) {
	visitsStarted.WithLabelValues(serviceCode).Inc()
}

// VisitCompleted records a completed visit session.
func VisitCompleted(disposition string) {
	visitsCompleted.WithLabelValues(disposition).Inc()
}

// VitalAlert records an alert-level vitals finding.
func VitalAlert(vital string) {
	vitalAlerts.WithLabelValues(vital).Inc()
}

// MedicationBlocked records a blocked medication addition.
func MedicationBlocked() {
	medicationsBlocked.Inc()
}

// Middleware instruments every request with count and duration metrics.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			httpRequestsTotal.WithLabelValues(
				c.Request().Method, path, strconv.Itoa(c.Response().Status),
			).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
