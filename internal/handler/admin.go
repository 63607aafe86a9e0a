package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/auth"
	"github.com/iliyamo/terminal-portal/internal/middleware"
	"github.com/iliyamo/terminal-portal/internal/queue"
	"github.com/iliyamo/terminal-portal/internal/repository"
	"github.com/iliyamo/terminal-portal/internal/session"
	qp "github.com/iliyamo/terminal-portal/internal/service/queue_publisher"
)

// AdminHandler implements the account-lifecycle endpoints.  Every route
// sits behind the RequireAdmin gate; the acting admin's session snapshot
// is read from the context for approval stamps and audit events.
type AdminHandler struct {
	Svc *auth.Service
}

func NewAdminHandler(svc *auth.Service) *AdminHandler { return &AdminHandler{Svc: svc} }

type accountPart struct {
	ID         uint64     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func adminSession(c echo.Context) session.Session {
	s, _ := c.Get(middleware.ContextAdminSession).(session.Session)
	return s
}

func pathUserID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// publishAudit emits a lifecycle event; a broker failure never fails the
// admin request.
func publishAudit(c echo.Context, action string, userID uint64, username string) {
	admin := adminSession(c)
	event := queue.AccountLifecycleEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		UserID:     userID,
		Username:   username,
		AdminID:    admin.UserID,
		AdminName:  admin.Username,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = qp.PublishAccountLifecycle(ctx, event)
}

// ListUsers returns accounts, optionally filtered by ?status=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	status := c.QueryParam("status")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Svc.ListAccounts(ctx, status)
	if err != nil {
		c.Logger().Errorf("list users failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list users"})
	}

	users := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, accountPart{
			ID:         a.ID,
			Username:   a.Username,
			Email:      a.Email,
			Role:       a.Role,
			Status:     a.Status,
			CreatedAt:  a.CreatedAt,
			ApprovedAt: a.ApprovedAt,
			LastLogin:  a.LastLogin,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

// ApproveUser transitions a pending account to active.
func (h *AdminHandler) ApproveUser(c echo.Context) error {
	userID, ok := pathUserID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Approve(ctx, adminSession(c).UserID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "User not found"})
		}
		c.Logger().Errorf("approve user %d failed: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to approve user"})
	}

	publishAudit(c, "approve", userID, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User approved successfully"})
}

// RejectUser deletes a pending user account.  Admin accounts are refused.
func (h *AdminHandler) RejectUser(c echo.Context) error {
	userID, ok := pathUserID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Reject(ctx, userID); err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.Is(err, repository.ErrAdminProtected):
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Cannot delete admin users"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "User not found"})
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": vErr.Msg})
		default:
			c.Logger().Errorf("reject user %d failed: %v", userID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to reject user"})
		}
	}

	publishAudit(c, "reject", userID, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User rejected and deleted successfully"})
}

// SuspendUser transitions an account to suspended.  Admin accounts are
// refused.
func (h *AdminHandler) SuspendUser(c echo.Context) error {
	userID, ok := pathUserID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Suspend(ctx, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAdminProtected):
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Cannot suspend admin users"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "User not found"})
		default:
			c.Logger().Errorf("suspend user %d failed: %v", userID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to suspend user"})
		}
	}

	publishAudit(c, "suspend", userID, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User suspended successfully"})
}

// ActivateUser lifts a suspension, re-stamping the approval columns.
func (h *AdminHandler) ActivateUser(c echo.Context) error {
	userID, ok := pathUserID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Activate(ctx, adminSession(c).UserID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "User not found"})
		}
		c.Logger().Errorf("activate user %d failed: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to activate user"})
	}

	publishAudit(c, "activate", userID, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User activated successfully"})
}

// Stats aggregates account counts per lifecycle status.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	counts, err := h.Svc.Stats(ctx)
	if err != nil {
		c.Logger().Errorf("stats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": counts})
}
