package middleware

import (
	"strconv"
	"time"

	"github.com/anonto42/socialnet/backend/internal/metrics"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger tags each request with an X-Request-ID, then logs it and
// records the HTTP metrics once the response is written.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if err := next(c); err != nil {
				// render now so the final status is known
				c.Error(err)
			}

			latency := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(latency.Seconds())

			fields := []zap.Field{
				logger.WithRequestID(requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				logger.WithStatus(status),
				zap.Duration("latency", latency),
				zap.String("client_ip", c.RealIP()),
			}
			if id := UserID(c); id != 0 {
				fields = append(fields, logger.WithUserID(id))
			}

			switch {
			case status >= 500:
				logger.Log.Error("Request failed", fields...)
			case status >= 400:
				logger.Log.Warn("Request rejected", fields...)
			default:
				logger.Log.Info("Request completed", fields...)
			}
			return nil
		}
	}
}
