package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Grzafnan/nest-server/internal/handlers"
	authmw "github.com/Grzafnan/nest-server/internal/middleware/auth"
	"github.com/Grzafnan/nest-server/internal/models"
)

type Deps struct {
	Auth   *handlers.AuthHTTP
	Users  *handlers.UserHTTP
	Search *handlers.SearchHTTP
	Guard  *authmw.Guard
}

// Register wires the routes. Required roles are declared here, per route,
// and enforced by the guard before any handler runs.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.GET("/refresh-token", d.Auth.RefreshToken)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/profile", d.Auth.Profile, d.Guard.RequireAuth())

	users := e.Group("/users")
	users.POST("", d.Users.Create)
	users.GET("", d.Users.FindAll, d.Guard.RequireAuth(models.RoleSuperAdmin, models.RoleAdmin))
	if d.Search != nil {
		users.GET("/search", d.Search.Search, d.Guard.RequireAuth(models.RoleSuperAdmin, models.RoleAdmin))
	}
	users.GET("/:id", d.Users.FindOne, d.Guard.RequireAuth())
	users.PATCH("/:id", d.Users.Update, d.Guard.RequireAuth(models.RoleSuperAdmin, models.RoleAdmin))
	users.DELETE("/:id", d.Users.Delete, d.Guard.RequireAuth(models.RoleSuperAdmin))
}
