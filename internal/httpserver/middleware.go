package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/warehouse/internal/logging"
	"github.com/avolkov/warehouse/internal/service"
)

type AuthMiddleware struct {
	Auth *service.AuthService
}

func (m *AuthMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require("seller", next)
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require("admin", next)
}

func (m *AuthMiddleware) require(role string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := m.resolve(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if identity.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		setIdentity(c, identity)
		return next(c)
	}
}

// resolve validates the access cookie and, when it is missing or expired,
// rotates via the refresh cookie, re-setting both cookies on success.
func (m *AuthMiddleware) resolve(c echo.Context) (*service.Identity, error) {
	if ck, err := c.Cookie("accessToken"); err == nil {
		if identity, err := m.Auth.ParseAccess(ck.Value); err == nil {
			return identity, nil
		}
	}

	rf, err := c.Cookie("refreshToken")
	if err != nil {
		return nil, err
	}
	access, refresh, identity, err := m.Auth.Rotate(c.Request().Context(), rf.Value)
	if err != nil {
		return nil, err
	}

	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(service.AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(service.RefreshTokenTTL)))
	return identity, nil
}

func setIdentity(c echo.Context, identity *service.Identity) {
	c.Set("userID", identity.UserID)
	c.Set("role", identity.Role)
	c.Set("sellerName", identity.SellerName)
}

func callerIdentity(c echo.Context) *service.Identity {
	userID, _ := c.Get("userID").(uint)
	role, _ := c.Get("role").(string)
	sellerName, _ := c.Get("sellerName").(string)
	return &service.Identity{UserID: userID, Role: role, SellerName: sellerName}
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			switch {
			case err != nil || status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
