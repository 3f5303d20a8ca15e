// Package metrics provides Prometheus metrics for the termquest server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termquest_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "termquest_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Interpreter metrics
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termquest_commands_total",
			Help: "Total number of executed command lines",
		},
		[]string{"variant", "outcome"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "termquest_command_duration_seconds",
			Help:    "Command execution time in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"variant"},
	)

	unlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termquest_unlocks_total",
			Help: "Total number of opened quest chests",
		},
		[]string{"kind"},
	)

	// Session metrics
	activeTerminals = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "termquest_active_terminals",
			Help: "Number of live terminals",
		},
		[]string{"variant"},
	)

	expiredTerminals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "termquest_expired_terminals_total",
			Help: "Terminals removed after being idle",
		},
	)

	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "termquest_websocket_connections",
			Help: "Number of open websocket connections",
		},
	)
)

// Handler returns the Prometheus metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records one executed line. outcome is "ok" or the error code.
func RecordCommand(variant, outcome string, duration time.Duration) {
	commandsTotal.WithLabelValues(variant, outcome).Inc()
	commandDuration.WithLabelValues(variant).Observe(duration.Seconds())
}

// RecordUnlock records an opened chest; final chests are counted apart.
func RecordUnlock(final bool) {
	kind := "chest"
	if final {
		kind = "final"
	}
	unlocksTotal.WithLabelValues(kind).Inc()
}

func TerminalStarted(variant string) {
	activeTerminals.WithLabelValues(variant).Inc()
}

func TerminalStopped(variant string) {
	activeTerminals.WithLabelValues(variant).Dec()
}

func RecordExpired(count int) {
	expiredTerminals.Add(float64(count))
}

func ConnectionOpened() {
	websocketConnections.Inc()
}

func ConnectionClosed() {
	websocketConnections.Dec()
}

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
