package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/handler"
	"github.com/stackit/stackit/internal/middleware"
)

// RegisterContent registers the question, answer and tag routes.  Browsing
// is open to guests: listings run behind the response cache, and question
// fetches use OptionalAuth so the view counter can recognize the author.
// All mutations require a valid session; ownership is enforced in the
// handlers, so the RequireRole gate only filters out tokens with unknown
// roles.
func RegisterContent(e *echo.Echo, q *handler.QuestionHandler, a *handler.AnswerHandler, t *handler.TagHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	// Public browse endpoints.
	e.GET("/v1/questions", q.List, middleware.OptionalAuth(jwtSecret), cache)
	e.GET("/v1/questions/:id", q.Get, middleware.OptionalAuth(jwtSecret))
	e.GET("/v1/tags", t.List, cache)
	e.GET("/v1/tags/search", t.Search, cache)

	// Authenticated mutations.
	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("user", "admin"),
	)
	auth.POST("/questions", q.Create)
	auth.PUT("/questions/:id", q.Update)
	auth.DELETE("/questions/:id", q.Delete)
	auth.POST("/questions/:id/vote", q.Vote)

	auth.POST("/questions/:id/answers", a.Create)
	auth.PUT("/answers/:id", a.Update)
	auth.DELETE("/answers/:id", a.Delete)
	auth.POST("/answers/:id/vote", a.Vote)
	auth.POST("/answers/:id/accept", a.Accept)
}
