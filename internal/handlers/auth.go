package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/logging"
	authmw "github.com/Grzafnan/nest-server/internal/middleware/auth"
	"github.com/Grzafnan/nest-server/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService

	// SecureCookies is true in production: the refresh cookie then only
	// travels over TLS.
	SecureCookies bool
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return apperror.BadRequest("invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp, h.SecureCookies))

	return sendResponse(c, http.StatusOK, "User logged in successfully!", echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	var raw string
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		raw = cookie.Value
	}

	accessToken, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		return err
	}

	return sendResponse(c, http.StatusOK, "User token refreshed successfully!", echo.Map{
		"access_token": accessToken,
	})
}

// Logout clears the refresh cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(DeleteCookie("refreshToken", "/", h.SecureCookies))
	return sendResponse(c, http.StatusOK, "User logged out successfully!", nil)
}

// Profile returns the claims the guard attached for the caller.
func (h *AuthHTTP) Profile(c echo.Context) error {
	claims := authmw.ClaimsFromContext(c)
	if claims == nil {
		return apperror.Unauthorized("Authorization token is missing or invalid!")
	}
	return sendResponse(c, http.StatusOK, "Profile retrieved successfully!", claims)
}
