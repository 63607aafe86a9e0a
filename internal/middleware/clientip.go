package middleware

// clientip.go resolves the client address used to key the rate limiter.
// A trusted proxy header wins, then the standard forwarded-for chain,
// then the direct peer address.  When a header carries several addresses
// the first one is taken.

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// ClientIP returns the best-effort client address for rate-limit keying.
func ClientIP(c echo.Context) string {
	r := c.Request()
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
