package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/api/metrics"
)

// Metrics observes request duration by route. It must wrap RequestLogger so
// the response status is final when it is read.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
