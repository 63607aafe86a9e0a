package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/model"
	"github.com/iliyamo/terminal-portal/internal/session"
)

// Cookie names for the two independent session scopes.  A browser may
// hold both at once: an admin browsing the public portal keeps a user
// session alongside the admin one.
const (
	UserCookie  = "portal_session"
	AdminCookie = "portal_admin_session"
)

// Context keys under which the resolved session is stored for handlers.
const (
	ContextSession      = "session"
	ContextAdminSession = "admin_session"
)

// RequireUser returns middleware that rejects requests lacking a live
// user-scope session.  The session (including its principal snapshot) is
// placed in the context for the handler.  Expired sessions were already
// purged by the manager's lazy check, so they simply read as absent here.
func RequireUser(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := lookup(c, mgr, session.ScopeUser, UserCookie)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Not authenticated"})
			}
			c.Set(ContextSession, s)
			return next(c)
		}
	}
}

// RequireAdmin returns middleware that rejects requests lacking a live
// admin-scope session whose snapshotted role is admin.  It runs before
// any side-effecting logic and before the privileged-action rate limiter,
// so unauthenticated callers never consume rate-limit budget.
func RequireAdmin(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := lookup(c, mgr, session.ScopeAdmin, AdminCookie)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Not authenticated"})
			}
			if s.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Access denied. Admin only."})
			}
			c.Set(ContextAdminSession, s)
			return next(c)
		}
	}
}

func lookup(c echo.Context, mgr *session.Manager, scope session.Scope, cookieName string) (session.Session, bool) {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return session.Session{}, false
	}
	s, ok, err := mgr.Get(c.Request().Context(), scope, cookie.Value)
	if err != nil {
		c.Logger().Errorf("session lookup failed: %v", err)
		return session.Session{}, false
	}
	return s, ok
}
