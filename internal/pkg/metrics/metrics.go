package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts HTTP requests by method, route and status.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes HTTP request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// GenerationsStarted counts generation runs by document type.
	GenerationsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_started_total",
			Help: "Total number of generation runs started",
		},
		[]string{"type"},
	)

	// GenerationsFinished counts generation runs by terminal status.
	GenerationsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_finished_total",
			Help: "Total number of generation runs finished, by outcome",
		},
		[]string{"type", "status"},
	)

	// GenerationsActive tracks the number of in-flight generation runs.
	GenerationsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "generations_active",
			Help: "Number of generation runs currently in progress",
		},
	)

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(
		RequestCounter,
		RequestDuration,
		GenerationsStarted,
		GenerationsFinished,
		GenerationsActive,
	)
}

// Handler returns the Prometheus scrape handler for the app registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
