package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that caps the request rate across the whole
// server. Generation is expensive (worst case max_tokens * max_attempts
// provider calls per request), so the server sheds load before queueing it.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if !limiter.Allow() {
				return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "request rate limit exceeded", "")
			}
			return next(c)
		}
	}
}
