package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit is the per-process request throttling hook. The default
// limiter allows everything (rate.Inf); a finite limit can be wired in
// from configuration once a policy is decided.
func RateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
