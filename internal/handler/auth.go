package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terminal-portal/internal/auth"
	"github.com/iliyamo/terminal-portal/internal/middleware"
	"github.com/iliyamo/terminal-portal/internal/model"
	"github.com/iliyamo/terminal-portal/internal/ratelimit"
	"github.com/iliyamo/terminal-portal/internal/repository"
	"github.com/iliyamo/terminal-portal/internal/session"
)

// AuthHandler bundles dependencies for the signup/login/logout/check
// endpoints.
type AuthHandler struct {
	Svc      *auth.Service
	Sessions *session.Manager
	Limiter  *ratelimit.Limiter
}

func NewAuthHandler(svc *auth.Service, sessions *session.Manager, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions, Limiter: limiter}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// recordFailure increments the caller's auth counter and sleeps the
// progressive delay.  The sleep stalls only this request's handler; other
// requests proceed untouched.
func (h *AuthHandler) recordFailure(c echo.Context) {
	delay, err := h.Limiter.Fail(c.Request().Context(), ratelimit.ScopeAuth, middleware.ClientIP(c))
	if err != nil {
		c.Logger().Warnf("ratelimit: record failure: %v", err)
		return
	}
	time.Sleep(delay)
}

func (h *AuthHandler) resetLimit(c echo.Context) {
	if err := h.Limiter.Reset(c.Request().Context(), ratelimit.ScopeAuth, middleware.ClientIP(c)); err != nil {
		c.Logger().Warnf("ratelimit: reset: %v", err)
	}
}

// Signup creates a pending account from self-service input.  Validation
// failures and duplicates count against the caller's rate limit; a
// successful signup clears it.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Svc.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.recordFailure(c)
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": vErr.Msg})
		case errors.Is(err, repository.ErrDuplicate):
			h.recordFailure(c)
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "Username or email already exists"})
		default:
			c.Logger().Errorf("signup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create account"})
		}
	}

	h.resetLimit(c)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Account created! Your account is pending admin approval. You will be able to login once approved.",
		"status":  model.StatusPending,
	})
}

// Login verifies credentials and establishes a user-scope session.  An
// admin account additionally receives an admin-scope session so the same
// browser can use both the public portal and the admin area.  Pending and
// suspended accounts are refused with their status; those denials do not
// count against the rate limit because the credentials were correct.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		h.recordFailure(c)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	account, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.recordFailure(c)
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": vErr.Msg})
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.recordFailure(c)
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid username or password"})
		case errors.Is(err, auth.ErrAccountPending):
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "Your account is pending admin approval. Please wait for approval before logging in.",
				"status":  model.StatusPending,
			})
		case errors.Is(err, auth.ErrAccountSuspended):
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "Your account has been suspended. Please contact the administrator.",
				"status":  model.StatusSuspended,
			})
		default:
			c.Logger().Errorf("login failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Login failed"})
		}
	}

	snapshot := session.Session{
		UserID:   account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
	}
	key, err := h.Sessions.Create(ctx, session.ScopeUser, snapshot)
	if err != nil {
		c.Logger().Errorf("create session failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Login failed"})
	}
	h.setCookie(c, middleware.UserCookie, key, int(h.Sessions.TTL().Seconds()))

	if account.IsAdmin() {
		adminKey, err := h.Sessions.Create(ctx, session.ScopeAdmin, session.Session{
			UserID:   account.ID,
			Username: account.Username,
			Role:     account.Role,
		})
		if err != nil {
			c.Logger().Errorf("create admin session failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Login failed"})
		}
		h.setCookie(c, middleware.AdminCookie, adminKey, int(h.Sessions.TTL().Seconds()))
	}

	h.resetLimit(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"user": userPart{
			ID:       account.ID,
			Username: account.Username,
			Email:    account.Email,
			Role:     account.Role,
		},
	})
}

// Logout destroys both session scopes if present.  Calling it without a
// session, or twice in a row, is a no-op success.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	for _, pair := range []struct {
		scope  session.Scope
		cookie string
	}{
		{session.ScopeUser, middleware.UserCookie},
		{session.ScopeAdmin, middleware.AdminCookie},
	} {
		if cookie, err := c.Cookie(pair.cookie); err == nil && cookie.Value != "" {
			if err := h.Sessions.Destroy(ctx, pair.scope, cookie.Value); err != nil {
				c.Logger().Warnf("destroy %s session: %v", pair.scope, err)
			}
		}
		h.setCookie(c, pair.cookie, "", -1)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// Check reports whether the caller holds a live user session and echoes
// the principal snapshot captured at login.
func (h *AuthHandler) Check(c echo.Context) error {
	cookie, err := c.Cookie(middleware.UserCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "logged_in": false})
	}
	s, ok, err := h.Sessions.Get(c.Request().Context(), session.ScopeUser, cookie.Value)
	if err != nil {
		c.Logger().Errorf("session check failed: %v", err)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "logged_in": false})
	}
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "logged_in": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"logged_in": true,
		"user": userPart{
			ID:       s.UserID,
			Username: s.Username,
			Email:    s.Email,
			Role:     s.Role,
		},
	})
}

func (h *AuthHandler) setCookie(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
