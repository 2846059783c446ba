package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"cardapio-api/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Orders created successfully, by tenant
	OrderCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"tenant"},
	)

	// Order creation failures by reason
	OrderErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_order_errors_total",
			Help: "Total number of order creation failures",
		},
		[]string{"reason"}, // reason can be "validation", "product_unavailable", "db_error", etc.
	)

	// Order status transitions
	StatusTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_order_status_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)

	// PIX charge creations by mode ("mock" or "provider")
	PixChargeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_pix_charges_total",
			Help: "Total number of PIX charges created",
		},
		[]string{"mode"},
	)

	// Webhook notifications by outcome
	WebhookCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_payment_webhooks_total",
			Help: "Total number of payment webhook notifications processed",
		},
		[]string{"result"}, // result can be "paid", "failed", "pending", "unmatched", "error"
	)

	// Login/registration attempts
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cardapio_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cardapio_register_total",
			Help: "Total number of tenant registrations",
		},
	)

	// Authentication/authorization errors by type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardapio_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardapio_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardapio_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete", "transaction"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cardapio_info",
			Help: "Information about the ordering service",
		},
		[]string{"version", "prefix"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(OrderCreatedCounter)
	prometheus.MustRegister(OrderErrorCounter)
	prometheus.MustRegister(StatusTransitionCounter)
	prometheus.MustRegister(PixChargeCounter)
	prometheus.MustRegister(WebhookCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)
}

// InitMetrics publishes static service info using the configured prefix
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{"version": "1.0.0", "prefix": cfg.Metrics.Prefix}).Set(1)
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

// RecordOrderError records an order creation failure by reason
func RecordOrderError(reason string) {
	OrderErrorCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordStatusTransition records an order lifecycle transition
func RecordStatusTransition(from, to string) {
	StatusTransitionCounter.With(prometheus.Labels{"from": from, "to": to}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
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
