package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/events"
	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/service"
	"github.com/avolkov/warehouse/internal/transport"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *events.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Auth.Register(ctx, req.SellerName, req.Username, req.Password)
	if err != nil {
		httpErr := toHTTPError(err, "cannot register user")
		l.Warn("register_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	publish(c, h.Producer, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	access, refresh, user, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		httpErr := toHTTPError(err, "cannot log in")
		l.Warn("login_failed", "status", statusOf(httpErr), "error", err)
		return httpErr
	}

	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(service.AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(service.RefreshTokenTTL)))

	l.Info("login_success", "userID", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"role":          user.Role,
		"seller_name":   user.SellerName,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if rf, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Auth.Logout(ctx, rf.Value); err != nil {
			l.Error("logout_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
		}
	}

	c.SetCookie(CreateCookie("accessToken", "", "/", time.Unix(0, 0)))
	c.SetCookie(CreateCookie("refreshToken", "", "/", time.Unix(0, 0)))

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

// publish sends a domain event best effort; delivery failures are logged,
// never surfaced to the caller.
func publish(c echo.Context, p *events.Producer, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, eventKey(event), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event_publish_failed", "error", err)
	}
}

func eventKey(event map[string]any) string {
	if v, ok := event["userID"]; ok {
		return fmt.Sprint(v)
	}
	return fmt.Sprint(event["type"])
}
