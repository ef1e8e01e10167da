package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/handler"
	"github.com/stackit/stackit/internal/middleware"
)

// RegisterNotifications registers the notification feed under /v1 and the
// admin-only announcement broadcast.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1/notifications", middleware.JWTAuth(jwtSecret))
	g.GET("", n.List)
	g.PUT("/:id/read", n.MarkRead)
	g.PUT("/read-all", n.MarkAllRead)
	g.POST("/announcement", n.Announce, middleware.RequireRole("admin"))
}
