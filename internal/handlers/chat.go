package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/handlers/dto"
	"github.com/thereayou/agora/internal/middleware"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/internal/services"
	"github.com/thereayou/agora/internal/ws"
)

type ChatHandler struct {
	chat *services.ChatService
	hub  *ws.Hub
}

func NewChatHandler(chat *services.ChatService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chat: chat, hub: hub}
}

// CreateDirectRoom создает или возвращает direct комнату с собеседником
func (h *ChatHandler) CreateDirectRoom(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	var req dto.CreateDirectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	room, err := h.chat.CreateDirectRoom(identity, targetID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatRoomResponse(room))
}

// GetMyRooms получает список комнат пользователя
func (h *ChatHandler) GetMyRooms(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	rooms, err := h.chat.GetUserRooms(identity)
	if err != nil {
		respondChatError(c, err)
		return
	}

	roomsResponse := make([]gin.H, len(rooms))
	for i, room := range rooms {
		response := formatRoomResponse(&room)
		response["online_count"] = h.hub.SubscriberCount(services.ChatRoomTopic(room.ID))
		roomsResponse[i] = response
	}

	c.JSON(http.StatusOK, gin.H{"rooms": roomsResponse})
}

// GetRoomMessages — история комнаты, от старых к новым
func (h *ChatHandler) GetRoomMessages(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	messages, err := h.chat.GetMessages(identity, roomID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	result := make([]gin.H, len(messages))
	for i, msg := range messages {
		result[i] = formatMessageResponse(&msg)
	}

	c.JSON(http.StatusOK, gin.H{"messages": result})
}

// SendMessage отправляет сообщение через HTTP (альтернатива WebSocket)
func (h *ChatHandler) SendMessage(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	message, err := h.chat.SendMessage(identity, roomID, req.Message)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formatMessageResponse(message))
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
	case errors.Is(err, database.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInactiveUser):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// formatMessageResponse форматирует ответ для сообщения
func formatMessageResponse(msg *models.Message) gin.H {
	response := gin.H{
		"id":         msg.ID,
		"room_id":    msg.RoomID,
		"sender_id":  msg.SenderID,
		"content":    msg.Content,
		"created_at": msg.CreatedAt,
	}

	// Если загружена информация об отправителе
	if msg.Sender.ID != uuid.Nil {
		response["sender"] = gin.H{
			"id":         msg.Sender.ID,
			"username":   msg.Sender.Username,
			"avatar_url": msg.Sender.AvatarURL,
		}
	}

	return response
}

// formatRoomResponse форматирует ответ для комнаты
func formatRoomResponse(room *models.Room) gin.H {
	members := make([]gin.H, len(room.Members))
	for i, member := range room.Members {
		members[i] = gin.H{
			"id":         member.ID,
			"username":   member.Username,
			"avatar_url": member.AvatarURL,
		}
	}

	return gin.H{
		"id":         room.ID,
		"type":       room.Type,
		"created_by": room.CreatedBy,
		"created_at": room.CreatedAt,
		"members":    members,
	}
}
