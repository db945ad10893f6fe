package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"etailor-admin/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_login_total",
			Help: "Total number of admin login attempts",
		},
	)

	// Token refresh counter
	RefreshCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_token_refresh_total",
			Help: "Total number of explicit token refresh requests",
		},
	)

	// Logout counter
	LogoutCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_logout_total",
			Help: "Total number of logout requests",
		},
	)

	// Transparent access-token renewal counter
	RenewalCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_token_renewal_total",
			Help: "Total number of transparent access token renewals",
		},
	)

	// Tailor registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tailor_register_total",
			Help: "Total number of tailor registrations",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_credentials", "token_not_found", "token_invalid", etc.
	)

	// Report generation counter
	ReportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_reports_total",
			Help: "Total number of report and dashboard requests",
		},
		[]string{"report"}, // "dashboard", "report", "yearly"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// Active sessions gauge (outstanding refresh tokens)
	ActiveSessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_active_sessions",
			Help: "Number of outstanding admin sessions",
		},
	)
)

// InitMetrics registers all metrics with the Prometheus registry
func InitMetrics(cfg *config.Config) {
	prometheus.MustRegister(
		LoginCounter,
		RefreshCounter,
		LogoutCounter,
		RenewalCounter,
		RegisterCounter,
		HTTPRequestCounter,
		AuthErrorCounter,
		ReportCounter,
		RequestDuration,
		DBOperationDuration,
		ActiveSessionsGauge,
	)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordReport records a report generation by kind
func RecordReport(report string) {
	ReportCounter.With(prometheus.Labels{"report": report}).Inc()
}
