package auth

import (
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/logging"
	"github.com/Grzafnan/nest-server/internal/tokens"
)

const CtxClaims = "user"

type Guard struct {
	JWTSecret []byte
}

// TokenFromHeader returns the bearer token from the Authorization header,
// or "" when the header is missing, has the wrong scheme or carries nothing.
func TokenFromHeader(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth authenticates the request and, when roles are given, requires
// the caller's role to be one of them. An empty role set admits any
// authenticated identity.
func (g *Guard) RequireAuth(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth_guard")

			token := TokenFromHeader(c)
			if token == "" {
				l.Warn("guard_rejected", "status", 401, "reason", "missing_token")
				return apperror.Unauthorized("Authorization token is missing or invalid!")
			}

			claims, err := tokens.AccessClaimsFromToken(token, g.JWTSecret)
			if err != nil {
				l.Warn("guard_rejected", "status", 401, "reason", "invalid_token")
				return apperror.Unauthorized("Invalid authorization token!")
			}

			c.Set(CtxClaims, claims)

			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				l.Warn("guard_rejected", "status", 403, "reason", "insufficient_role", "role", claims.Role)
				return apperror.Forbidden("Access denied: insufficient role.")
			}

			return next(c)
		}
	}
}

// ClaimsFromContext returns the identity the guard attached, nil if the
// request never passed the guard.
func ClaimsFromContext(c echo.Context) *tokens.AccessClaims {
	if claims, ok := c.Get(CtxClaims).(*tokens.AccessClaims); ok {
		return claims
	}
	return nil
}
