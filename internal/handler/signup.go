package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/auth"
	"github.com/iliyamo/terminal-portal/internal/model"
	"github.com/iliyamo/terminal-portal/internal/repository"
)

// SignupRequestHandler exposes the legacy intake flow: visitors submit
// contact details, and an admin later rejects the request or provisions a
// real account from it.
type SignupRequestHandler struct {
	Svc *auth.Service
}

func NewSignupRequestHandler(svc *auth.Service) *SignupRequestHandler {
	return &SignupRequestHandler{Svc: svc}
}

type intakeReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type provisionReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupPart struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit records a new intake request (public endpoint, auth-scope rate
// limited alongside signup and login).
func (h *SignupRequestHandler) Submit(c echo.Context) error {
	var req intakeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Svc.SubmitSignupRequest(ctx, req.Name, req.Email, req.Phone); err != nil {
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": vErr.Msg})
		}
		c.Logger().Errorf("submit signup request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to submit request"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Request submitted. An administrator will review it shortly.",
		"status":  model.SignupPending,
	})
}

// List returns intake requests for the admin table, optionally filtered
// by ?status=.
func (h *SignupRequestHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	requests, err := h.Svc.ListSignupRequests(ctx, c.QueryParam("status"))
	if err != nil {
		c.Logger().Errorf("list signup requests failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list requests"})
	}

	out := make([]signupPart, 0, len(requests))
	for _, r := range requests {
		out = append(out, signupPart{
			ID:          r.ID,
			Name:        r.Name,
			Email:       r.Email,
			Phone:       r.Phone,
			Status:      r.Status,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "requests": out})
}

// Reject marks an intake request rejected.
func (h *SignupRequestHandler) Reject(c echo.Context) error {
	signupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || signupID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Signup ID required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.RejectSignupRequest(ctx, signupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Signup request not found"})
		}
		c.Logger().Errorf("reject signup %d failed: %v", signupID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to reject signup"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Signup request rejected"})
}

// Provision promotes an intake request into an immediately-active account
// with credentials chosen by the admin.  The account insert and the
// request's approval are one transaction.
func (h *SignupRequestHandler) Provision(c echo.Context) error {
	signupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || signupID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Signup ID required"})
	}

	var req provisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Svc.ProvisionSignup(ctx, adminSession(c).UserID, signupID, req.Username, req.Email, req.Password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "Username or email already exists"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Signup request not found"})
		default:
			c.Logger().Errorf("provision signup %d failed: %v", signupID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create account"})
		}
	}

	publishAudit(c, "provision", userID, req.Username)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Account created successfully"})
}
