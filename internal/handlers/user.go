package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/middleware"
	"github.com/thereayou/agora/internal/models"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	user, err := h.db.GetUser(identity.UserID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"role":         user.Role,
		"avatar_url":   user.AvatarURL,
		"created_at":   user.CreatedAt,
		"last_seen_at": user.LastSeenAt,
	})
}

// UpdateMe обновляет информацию текущего пользователя
func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetUser(identity.UserID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Обновляем только переданные поля
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := h.db.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"avatar_url": user.AvatarURL,
	})
}

// DeactivateMe переводит аккаунт в inactive. Назад — только
// явная реактивация через /auth/reactivate.
func (h *UserHandler) DeactivateMe(c *gin.Context) {
	identity := middleware.MustIdentity(c)

	if err := h.db.SetUserStatus(identity.UserID.String(), models.StatusInactive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

// GetUser возвращает информацию о пользователе по ID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"avatar_url":   user.AvatarURL,
		"last_seen_at": user.LastSeenAt,
	})
}

// SearchUsers поиск пользователей по username
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	users, err := h.db.SearchUsersByUsername(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search users"})
		return
	}

	result := make([]gin.H, len(users))
	for i, user := range users {
		result[i] = gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"avatar_url": user.AvatarURL,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": result})
}
