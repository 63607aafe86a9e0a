package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/infra"
	"github.com/iliyamo/terminal-portal/internal/middleware"
	"github.com/iliyamo/terminal-portal/internal/ratelimit"
)

// NetworkHandler wraps the infrastructure collaborators behind the admin
// gate and the privileged-action rate limiter.  It never builds commands
// itself; that lives in internal/infra.
type NetworkHandler struct {
	Network infra.Controller
	Cron    *infra.CronToggle
	Limiter *ratelimit.Limiter
}

func NewNetworkHandler(network infra.Controller, cron *infra.CronToggle, limiter *ratelimit.Limiter) *NetworkHandler {
	return &NetworkHandler{Network: network, Cron: cron, Limiter: limiter}
}

type actionReq struct {
	Action string `json:"action"`
}

func (h *NetworkHandler) recordFailure(c echo.Context) {
	delay, err := h.Limiter.Fail(c.Request().Context(), ratelimit.ScopeNetwork, middleware.ClientIP(c))
	if err != nil {
		c.Logger().Warnf("ratelimit: record failure: %v", err)
		return
	}
	time.Sleep(delay)
}

func (h *NetworkHandler) resetLimit(c echo.Context) {
	if err := h.Limiter.Reset(c.Request().Context(), ratelimit.ScopeNetwork, middleware.ClientIP(c)); err != nil {
		c.Logger().Warnf("ratelimit: reset: %v", err)
	}
}

// Control toggles or reports the webtop container's internet access.
// Collaborator failures are logged with full detail server-side and
// surfaced to the caller as a generic message.
func (h *NetworkHandler) Control(c echo.Context) error {
	var req actionReq
	if err := c.Bind(&req); err != nil || req.Action == "" {
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Missing action"})
	}

	ctx := c.Request().Context()
	var (
		result infra.Result
		err    error
	)
	switch req.Action {
	case "enable":
		result, err = h.Network.Enable(ctx)
	case "disable":
		result, err = h.Network.Disable(ctx)
	case "status":
		result, err = h.Network.Status(ctx)
	default:
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": `Invalid action. Use "enable", "disable" or "status"`})
	}
	if err != nil {
		c.Logger().Errorf("network %s failed: %v", req.Action, err)
		h.recordFailure(c)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to " + req.Action + " internet"})
	}

	h.resetLimit(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": result.Message, "status": result.Status})
}

// CronControl pauses or resumes the auto-restart watchdog via its flag
// file.
func (h *NetworkHandler) CronControl(c echo.Context) error {
	var req actionReq
	if err := c.Bind(&req); err != nil || req.Action == "" {
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Missing action"})
	}

	var (
		result infra.Result
		err    error
	)
	switch req.Action {
	case "pause", "cron-pause":
		result, err = h.Cron.Pause()
	case "resume", "cron-resume":
		result, err = h.Cron.Resume()
	case "status", "cron-status":
		result, err = h.Cron.Status()
	default:
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": `Invalid action. Use "pause", "resume" or "status"`})
	}
	if err != nil {
		c.Logger().Errorf("cron %s failed: %v", req.Action, err)
		h.recordFailure(c)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update auto-restart"})
	}

	h.resetLimit(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": result.Message, "status": result.Status})
}
