// Package middleware provides Echo middleware for the automerch API server.
package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/automerch/internal/metrics"
)

// unmatchedRoute labels requests that matched no registered route, so raw
// URLs never become label values.
const unmatchedRoute = "unmatched"

// metricsSkipPaths are probe and scrape endpoints. The health handlers
// maintain their own up gauges.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// metricsSkipPrefixes cover the generated API documentation.
var metricsSkipPrefixes = []string{"/docs", "/openapi", "/schemas"}

// Metrics returns Echo middleware that records request duration and count
// labelled by method, route template and status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipMetrics(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) && !c.Response().Committed {
				status = he.Code
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}

			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}

func skipMetrics(path string) bool {
	if _, ok := metricsSkipPaths[path]; ok {
		return true
	}
	for _, p := range metricsSkipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
