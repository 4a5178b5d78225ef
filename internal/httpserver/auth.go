package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/middleware"
	"github.com/Skotchmaster/content_api/internal/service"
	"github.com/Skotchmaster/content_api/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Validate *validator.Validate
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": transport.ValidationDetail(err),
		})
	}

	user, pair, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpError(err, "register failed")
	}

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		User:    user,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": transport.ValidationDetail(err),
		})
	}

	user, pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err, "login failed")
	}

	return c.JSON(http.StatusOK, transport.AuthResponse{
		User:    user,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.Refresh)
	if err != nil {
		return httpError(err, "refresh failed")
	}

	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Logout(ctx, req.Refresh); err != nil {
		return httpError(err, "logout failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Svc.CurrentUser(ctx, middleware.CallerID(c))
	if err != nil {
		return httpError(err, "cannot load user")
	}

	return c.JSON(http.StatusOK, user)
}
