package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/handler"
	"github.com/stackit/stackit/internal/middleware"
)

// RegisterAdmin registers the admin dashboard routes.  Every route in the
// group requires a valid session carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)
	g.GET("/dashboard", a.Dashboard)
	g.GET("/users", a.ListUsers)
	g.PUT("/users/:id/ban", a.Ban)
	g.PUT("/users/:id/unban", a.Unban)
	g.POST("/moderate", a.Moderate)
	g.GET("/reports", a.Reports)
}
