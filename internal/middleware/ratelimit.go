package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/ratelimit"
)

// RateLimit returns middleware that denies requests from locked-out IPs
// before the handler runs.  Recording failures and resetting on success
// stay inside the handlers, which know the outcome; this gate only stops
// callers already over the limit.  A store error fails open: throttling
// is best-effort and must never take authentication down with it.
func RateLimit(limiter *ratelimit.Limiter, scope ratelimit.Scope) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := ClientIP(c)
			decision, err := limiter.Check(c.Request().Context(), scope, ip)
			if err != nil {
				c.Logger().Warnf("ratelimit: store error for ip=%s: %v", ip, err)
				return next(c)
			}
			if !decision.Allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
				minutes := (decision.RetryAfter + 59) / 60
				plural := ""
				if minutes > 1 {
					plural = "s"
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success":     false,
					"error":       fmt.Sprintf("Too many failed attempts. Please try again in %d minute%s", minutes, plural),
					"retry_after": decision.RetryAfter,
				})
			}
			return next(c)
		}
	}
}
