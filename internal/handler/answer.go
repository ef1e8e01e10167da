package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/queue"
	"github.com/stackit/stackit/internal/repository"
	queue_publisher "github.com/stackit/stackit/internal/service"
)

// AnswerHandler bundles the repositories behind the answer endpoints,
// including the notification fan-out on answer creation.
type AnswerHandler struct {
	Questions     *repository.QuestionRepo
	Answers       *repository.AnswerRepo
	Notifications *repository.NotificationRepo
	Votes         *repository.VoteRepo
}

func NewAnswerHandler(q *repository.QuestionRepo, a *repository.AnswerRepo, n *repository.NotificationRepo, v *repository.VoteRepo) *AnswerHandler {
	if q == nil || a == nil || n == nil || v == nil {
		panic("nil repository passed to NewAnswerHandler")
	}
	return &AnswerHandler{Questions: q, Answers: a, Notifications: n, Votes: v}
}

// AnswerNotificationMessage is the text delivered to a question's author
// when someone answers.
func AnswerNotificationMessage(answerer, questionTitle string) string {
	return fmt.Sprintf("%s answered your question: %s", answerer, questionTitle)
}

// Create handles POST /v1/questions/:id/answers. Posting an answer to
// someone else's question notifies the question author; self-answers
// produce no notification. Notification persistence happens in-request,
// the broker event is fire-and-forget.
func (h *AnswerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	questionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	ctx := c.Request().Context()

	q, err := h.Questions.GetByID(ctx, questionID)
	if err != nil || !q.IsActive {
		if err != nil && err != repository.ErrQuestionNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
	}

	a := &repository.Answer{
		QuestionID: questionID,
		Content:    req.Content,
		Author:     repository.UserSummary{ID: uid},
	}
	if err := h.Answers.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create answer"})
	}

	if q.Author.ID != uid {
		n := &repository.Notification{
			RecipientID: q.Author.ID,
			Sender:      repository.UserSummary{ID: uid},
			Type:        repository.NotifAnswer,
			Message:     AnswerNotificationMessage(getUsername(c), q.Title),
			QuestionID:  &questionID,
			AnswerID:    &a.ID,
		}
		if err := h.Notifications.Create(ctx, n); err != nil {
			// The answer exists; a lost notification is logged, not fatal.
			c.Logger().Errorf("answer notification failed: %v", err)
		} else {
			publishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishNotificationCreated(publishCtx, queue.NotificationEvent{
				Type:        repository.NotifAnswer,
				SenderID:    uid,
				SenderName:  getUsername(c),
				RecipientID: q.Author.ID,
				Message:     n.Message,
				QuestionID:  questionID,
				AnswerID:    a.ID,
				CreatedAt:   time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "answer created successfully",
		"answer":  a,
	})
}

// Update handles PUT /v1/answers/:id. Author or admin only; votes,
// acceptance and status are untouched.
func (h *AnswerHandler) Update(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	ctx := c.Request().Context()

	a, err := h.Answers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAnswerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !actor.CanModify(a.Author.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to update this answer"})
	}
	if err := h.Answers.Update(ctx, id, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Answers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "answer updated successfully",
		"answer":  updated,
	})
}

// Delete handles DELETE /v1/answers/:id. Author or admin only. The row is
// kept with is_active=0, which removes it from the parent question's
// answer list while direct lookups still work.
func (h *AnswerHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	a, err := h.Answers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAnswerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !actor.CanModify(a.Author.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this answer"})
	}
	if err := h.Answers.SoftDelete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "answer deleted successfully"})
}

// Vote handles POST /v1/answers/:id/vote.
func (h *AnswerHandler) Vote(c echo.Context) error {
	return applyVote(c, h.Votes, repository.ContentAnswer)
}

// Accept handles POST /v1/answers/:id/accept. Only the question's author
// may accept; the previous accepted answer, if different, is superseded
// inside the same transaction.
func (h *AnswerHandler) Accept(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	a, err := h.Answers.GetByID(ctx, id)
	if err != nil || !a.IsActive {
		if err != nil && err != repository.ErrAnswerNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
	}

	if err := h.Answers.Accept(ctx, a.QuestionID, id, uid); err != nil {
		switch err {
		case repository.ErrAnswerNotFound, repository.ErrQuestionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only question author can accept answers"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "answer does not belong to this question"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to accept answer"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "answer accepted successfully",
		"answerId": id,
	})
}
