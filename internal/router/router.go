package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/terminal-portal/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/terminal-portal/internal/middleware" // import middleware for session gates and rate limiting
	"github.com/iliyamo/terminal-portal/internal/ratelimit"
	"github.com/iliyamo/terminal-portal/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication actions and the legacy intake
// submission.  Every route in this group passes the auth-scope rate
// limiter before its handler runs, so a locked-out IP is refused with a
// retry_after before any credential work happens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, sr *handler.SignupRequestHandler, limiter *ratelimit.Limiter) {
	g := e.Group("/v1/auth", middleware.RateLimit(limiter, ratelimit.ScopeAuth))
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/check", a.Check)

	// Legacy intake entry point: contact details only, promoted into an
	// account later by an admin.  Shares the auth-scope limiter.
	e.POST("/v1/signup-requests", sr.Submit, middleware.RateLimit(limiter, ratelimit.ScopeAuth))
}

// RegisterAdmin registers every admin-only endpoint behind the
// RequireAdmin gate.  The privileged network and cron toggles addition-
// ally pass the network-scope rate limiter; the gate runs first (group
// middleware precedes route middleware in echo), so unauthenticated
// callers never consume rate-limit budget.
func RegisterAdmin(e *echo.Echo, mgr *session.Manager, admin *handler.AdminHandler, sr *handler.SignupRequestHandler, network *handler.NetworkHandler, limiter *ratelimit.Limiter) {
	g := e.Group("/v1/admin", middleware.RequireAdmin(mgr))

	g.GET("/users", admin.ListUsers)
	g.POST("/users/:id/approve", admin.ApproveUser)
	g.POST("/users/:id/reject", admin.RejectUser)
	g.POST("/users/:id/suspend", admin.SuspendUser)
	g.POST("/users/:id/activate", admin.ActivateUser)
	g.GET("/stats", admin.Stats)

	g.GET("/signup-requests", sr.List)
	g.POST("/signup-requests/:id/reject", sr.Reject)
	g.POST("/signup-requests/:id/provision", sr.Provision)

	g.POST("/network", network.Control, middleware.RateLimit(limiter, ratelimit.ScopeNetwork))
	g.POST("/cron", network.CronControl, middleware.RateLimit(limiter, ratelimit.ScopeNetwork))
}
