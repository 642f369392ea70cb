// Package middleware provides Echo middleware for the tripmock backend.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/trip-market/internal/metrics"
)

// probeGauges are the health probes. They set their gauge instead of
// feeding the request histograms.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that counts and times requests by method,
// route template and status. Requests that match no route share the
// "unmatched" path label. /metrics itself is not recorded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			urlPath := c.Request().URL.Path
			if urlPath == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			status := responseStatus(c, err)

			if gauge, ok := probeGauges[urlPath]; ok {
				if status >= 200 && status < 300 {
					gauge.Set(1)
				} else {
					gauge.Set(0)
				}
				return err
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   route,
				"status": strconv.Itoa(status),
			}
			metrics.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.With(labels).Inc()

			return err
		}
	}
}

// responseStatus is the status the client will see. An error returned
// before anything was written is rendered later by Echo's error handler.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
