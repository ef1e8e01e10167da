package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/repository"
)

// TagHandler serves the public tag listing and search endpoints.
type TagHandler struct {
	Tags *repository.TagRepo
}

func NewTagHandler(t *repository.TagRepo) *TagHandler {
	if t == nil {
		panic("nil repository passed to NewTagHandler")
	}
	return &TagHandler{Tags: t}
}

// List handles GET /v1/tags: the 50 most used tags.
func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.Tags.List(c.Request().Context(), 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch tags"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}

// Search handles GET /v1/tags/search?q=: substring match for the tag
// typeahead, most used first, capped at 10.
func (h *TagHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	tags, err := h.Tags.Search(c.Request().Context(), q, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search tags"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}
