package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/repository"
)

// AdminHandler bundles the repositories behind the admin dashboard:
// stats, user management, content moderation and reports. All routes are
// gated on the admin role at the router.
type AdminHandler struct {
	Users     *repository.UserRepo
	Questions *repository.QuestionRepo
	Answers   *repository.AnswerRepo
	Stats     *repository.StatsRepo
}

func NewAdminHandler(u *repository.UserRepo, q *repository.QuestionRepo, a *repository.AnswerRepo, s *repository.StatsRepo) *AdminHandler {
	if u == nil || q == nil || a == nil || s == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: u, Questions: q, Answers: a, Stats: s}
}

// Dashboard handles GET /v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.Stats.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch dashboard stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

// ListUsers handles GET /v1/admin/users. Password hashes never leave the
// handler.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)
	users, total, err := h.Users.List(c.Request().Context(), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch users"})
	}

	type adminUser struct {
		ID         uint64 `json:"id"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		Reputation int    `json:"reputation"`
		IsActive   bool   `json:"isActive"`
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{
			ID: u.ID, Username: u.Username, Email: u.Email,
			Role: u.Role, Reputation: u.Reputation, IsActive: u.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":       out,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// Ban handles PUT /v1/admin/users/:id/ban. Admin accounts cannot be banned.
func (h *AdminHandler) Ban(c echo.Context) error {
	return h.setUserActive(c, false, "user banned successfully")
}

// Unban handles PUT /v1/admin/users/:id/unban.
func (h *AdminHandler) Unban(c echo.Context) error {
	return h.setUserActive(c, true, "user unbanned successfully")
}

func (h *AdminHandler) setUserActive(c echo.Context, active bool, okMsg string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.SetActive(c.Request().Context(), id, active); err != nil {
		switch err {
		case repository.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot ban admin users"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": okMsg})
}

// Moderate handles POST /v1/admin/moderate: approve or reject a question
// or answer. The active flag is untouched; moderation and soft deletion
// are independent axes.
func (h *AdminHandler) Moderate(c echo.Context) error {
	var req struct {
		Type   string `json:"type"`
		ID     uint64 `json:"id"`
		Action string `json:"action"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var status string
	switch req.Action {
	case "approve":
		status = "approved"
	case "reject":
		status = "rejected"
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be approve or reject"})
	}

	ctx := c.Request().Context()
	var err error
	switch req.Type {
	case repository.ContentQuestion:
		err = h.Questions.SetStatus(ctx, req.ID, status)
	case repository.ContentAnswer:
		err = h.Answers.SetStatus(ctx, req.ID, status)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be question or answer"})
	}
	if err != nil {
		if err == repository.ErrQuestionNotFound || err == repository.ErrAnswerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "content not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "moderation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "content " + status})
}

// Reports handles GET /v1/admin/reports?type=users|activity.
func (h *AdminHandler) Reports(c echo.Context) error {
	ctx := c.Request().Context()
	switch c.QueryParam("type") {
	case "users":
		users, err := h.Stats.UserReport(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate report"})
		}
		return c.JSON(http.StatusOK, echo.Map{"users": users})
	case "activity":
		questions, answers, err := h.Stats.ActivityReport(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate report"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"questions": questions,
			"answers":   answers,
		})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be users or activity"})
	}
}
