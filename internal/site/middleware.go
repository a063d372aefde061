package site

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// loggingMiddleware logs every request and records its metrics. Metrics are
// labeled by route pattern to keep record ids out of label values.
func (s *Site) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		duration := time.Since(start)
		req := c.Request()
		status := c.Response().Status

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(req.Method, route).Observe(duration.Seconds())

		s.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", req.RemoteAddr,
		)

		return nil
	}
}
