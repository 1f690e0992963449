package middleware

import (
	"strconv"
	"time"

	"stayRank/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and latency per route. The route
// template is used as the path label so path parameters do not explode
// cardinality.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.RequestTotal.WithLabelValues(method, path, status).Inc()
			metrics.RequestDuration.WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
