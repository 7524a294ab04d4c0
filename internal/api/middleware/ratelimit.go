package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openshelf/digital-library/internal/api/metrics"
)

// Counter counts requests per client within a fixed window.
type Counter interface {
	Incr(ctx context.Context, client string, window time.Duration) (int64, error)
}

// RateLimit rejects clients that exceed max requests per window, keyed by
// remote IP. Counter failures fail open: a degraded Redis must not take the
// API down with it.
func RateLimit(counter Counter, max int64, window time.Duration, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			count, err := counter.Incr(c.Request().Context(), c.RealIP(), window)
			if err != nil {
				logger.Warn().Err(err).Msg("rate limit counter unavailable, allowing request")
				return next(c)
			}
			if count > max {
				metrics.RateLimitRejectedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "too many requests, please try again later",
				})
			}
			return next(c)
		}
	}
}
