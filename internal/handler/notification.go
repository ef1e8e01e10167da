package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stackit/stackit/internal/queue"
	"github.com/stackit/stackit/internal/repository"
	queue_publisher "github.com/stackit/stackit/internal/service"
)

// NotificationHandler serves a user's notification feed and the admin
// announcement broadcast.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	if n == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: n}
}

// List handles GET /v1/notifications: the caller's notifications newest
// first plus their unread count.
func (h *NotificationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, limit := pageParams(c)

	notifications, unread, err := h.Notifications.ListByRecipient(c.Request().Context(), uid, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch notifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkRead handles PUT /v1/notifications/:id/read. A notification that is
// missing or belongs to someone else answers 404 either way.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), id, uid); err != nil {
		if err == repository.ErrNotificationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notification as read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
}

// MarkAllRead handles PUT /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Notifications.MarkAllRead(c.Request().Context(), uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notifications as read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked as read"})
}

// Announce handles POST /v1/notifications/announcement (admin only). The
// fan-out is one INSERT ... SELECT under a fresh broadcast id; a storage
// failure is reported as a failure even if some rows were persisted, and a
// retry with the same statement cannot duplicate recipients already
// covered by this broadcast id.
func (h *NotificationHandler) Announce(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	if len(req.Message) > 500 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be at most 500 characters"})
	}

	broadcastID := uuid.NewString()
	count, err := h.Notifications.Broadcast(c.Request().Context(), uid, req.Message, broadcastID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send announcement"})
	}

	publishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishNotificationCreated(publishCtx, queue.NotificationEvent{
		Type:           repository.NotifAnnouncement,
		SenderID:       uid,
		SenderName:     getUsername(c),
		RecipientCount: count,
		Message:        req.Message,
		BroadcastID:    broadcastID,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "announcement sent to all users",
		"recipients":  count,
		"broadcastId": broadcastID,
	})
}
