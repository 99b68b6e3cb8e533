package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/middleware"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List — страница уведомлений текущего пользователя
func (h *NotificationHandler) List(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	page := 0
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed >= 0 {
			page = parsed
		}
	}

	size := 20
	if s := c.Query("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}

	notifications, err := h.notifications.List(identity, page, size)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	unread, err := h.notifications.CountUnread(identity)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	result := make([]gin.H, len(notifications))
	for i, n := range notifications {
		result[i] = formatNotificationResponse(&n)
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": result,
		"unread_count":  unread,
		"page":          page,
		"size":          size,
	})
}

// MarkRead помечает одно уведомление прочитанным
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notifications.MarkRead(identity, id); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	if err := h.notifications.MarkAllRead(identity); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your notification"})
	case errors.Is(err, database.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func formatNotificationResponse(n *models.Notification) gin.H {
	response := gin.H{
		"id":         n.ID,
		"type":       n.Type,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if n.Link != "" {
		response["link"] = n.Link
	}
	return response
}
