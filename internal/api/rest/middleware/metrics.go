package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/metrics"
)

// Metrics records request counts and latencies per route.
type Metrics struct {
	metrics *metrics.Metrics
}

func NewMetrics(metrics *metrics.Metrics) *Metrics {
	return &Metrics{metrics: metrics}
}

// Handle observes each request under its route template, not the raw path.
// A handler error is rendered to learn the final status and then passed on unchanged.
func (m *Metrics) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil && !c.Response().Committed {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		m.metrics.ObserveRequest(
			c.Request().Method,
			path,
			strconv.Itoa(c.Response().Status),
			time.Since(start),
		)
		return err
	}
}
