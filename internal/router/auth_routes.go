package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/handler"
	"github.com/stackit/stackit/internal/middleware"
)

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth;
// /v1/auth/me requires a valid session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Logout only clears the cookie, so it does not require a valid session.
	g.POST("/logout", a.Logout)

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
