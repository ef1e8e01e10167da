package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/repository"
)

// QuestionHandler bundles the repositories behind the question endpoints.
type QuestionHandler struct {
	Questions *repository.QuestionRepo
	Answers   *repository.AnswerRepo
	Tags      *repository.TagRepo
	Votes     *repository.VoteRepo
}

func NewQuestionHandler(q *repository.QuestionRepo, a *repository.AnswerRepo, t *repository.TagRepo, v *repository.VoteRepo) *QuestionHandler {
	if q == nil || a == nil || t == nil || v == nil {
		panic("nil repository passed to NewQuestionHandler")
	}
	return &QuestionHandler{Questions: q, Answers: a, Tags: t, Votes: v}
}

type questionReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func validateQuestionReq(req *questionReq) string {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		return "title is required"
	}
	if len(req.Title) > 200 {
		return "title must be at most 200 characters"
	}
	if req.Description == "" {
		return "description is required"
	}
	if len(req.Tags) == 0 {
		return "at least one tag is required"
	}
	if len(req.Tags) > 5 {
		return "at most 5 tags are allowed"
	}
	return ""
}

// List handles GET /v1/questions. Only approved, active questions are
// returned; guests and users see the same payload, which is what makes the
// route cacheable.
func (h *QuestionHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	opts := repository.ListQuestionsOpts{
		Page:   page,
		Limit:  limit,
		SortBy: c.QueryParam("sortBy"),
		Tag:    repository.NormalizeTag(c.QueryParam("tag")),
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	questions, total, err := h.Questions.List(c.Request().Context(), opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch questions"})
	}
	if questions == nil {
		questions = []*repository.Question{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"questions":   questions,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// Get handles GET /v1/questions/:id. The view counter is bumped with an
// atomic column increment unless the requester is the question's author.
// Soft-deleted questions read as missing.
func (h *QuestionHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	q, err := h.Questions.GetByID(ctx, id)
	if err != nil || !q.IsActive {
		if err != nil && err != repository.ErrQuestionNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch question"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
	}

	// OptionalAuth: uid is zero for guests.
	uid, _ := getUserID(c)
	if uid != q.Author.ID {
		if err := h.Questions.IncrementViews(ctx, id); err == nil {
			q.Views++
		}
	}

	answers, err := h.Answers.ListByQuestion(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch answers"})
	}

	resp := echo.Map{"question": q, "answers": answers}
	if uid != 0 {
		if userVote, err := h.Votes.UserVote(ctx, repository.ContentQuestion, id, uid); err == nil {
			resp["userVote"] = userVote
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/questions. Tags are upserted first so that their
// usage counters move even if question creation later fails; counts are
// never decremented, matching the soft-delete behavior.
func (h *QuestionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateQuestionReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()

	tagIDs, err := h.Tags.UpsertAll(ctx, req.Tags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save tags"})
	}

	q := &repository.Question{
		Title:       req.Title,
		Description: req.Description,
		Author:      repository.UserSummary{ID: uid},
	}
	if err := h.Questions.Create(ctx, q, tagIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create question"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "question created successfully",
		"question": q,
	})
}

// Update handles PUT /v1/questions/:id. Author or admin only; votes,
// views and moderation status are untouched.
func (h *QuestionHandler) Update(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()

	q, err := h.Questions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrQuestionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !actor.CanModify(q.Author.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to update this question"})
	}

	// Absent fields keep their current values.
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = q.Title
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = q.Description
	}
	var tagIDs []uint64
	if req.Tags != nil {
		// Editing relinks tags without bumping usage counters.
		tagIDs, err = h.Tags.IDsFor(ctx, req.Tags)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save tags"})
		}
	}
	if err := h.Questions.Update(ctx, id, title, description, tagIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Questions.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "question updated successfully",
		"question": updated,
	})
}

// Delete handles DELETE /v1/questions/:id. Author or admin only. The row
// is kept with is_active=0 and answers are not cascaded.
func (h *QuestionHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	q, err := h.Questions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrQuestionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !actor.CanModify(q.Author.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this question"})
	}
	if err := h.Questions.SoftDelete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "question deleted successfully"})
}

// Vote handles POST /v1/questions/:id/vote. An empty or "none" type
// retracts the caller's vote; self-voting is not prevented.
func (h *QuestionHandler) Vote(c echo.Context) error {
	return applyVote(c, h.Votes, repository.ContentQuestion)
}

// applyVote is the shared vote endpoint body for questions and answers.
func applyVote(c echo.Context, votes *repository.VoteRepo, contentType string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	score, userVote, err := votes.Apply(c.Request().Context(), contentType, id, uid, req.Type)
	if err != nil {
		switch err {
		case repository.ErrInvalidVote:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vote type"})
		case repository.ErrContentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": contentType + " not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record vote"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "vote recorded successfully",
		"voteScore": score,
		"userVote":  userVote,
	})
}
