package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/furniture-server/internal/logger"
)

// Logging logs every HTTP request with its outcome.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, route, status and duration for each request.
// Errors returned by the handler are rendered here unless an inner middleware
// already did, so the logged status is final.
func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		log := l.logger.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))

		err := next(c)
		if err != nil && !c.Response().Committed {
			c.Error(err)
		}

		status := c.Response().Status
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"route", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request failed", append(fields, "error", errorText(err))...)
		case err != nil:
			log.Info("HTTP request rejected", append(fields, "error", errorText(err))...)
		default:
			log.Info("HTTP request completed", fields...)
		}

		return nil
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
