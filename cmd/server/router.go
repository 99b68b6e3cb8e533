package server

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/agora/internal/handlers"
	"github.com/thereayou/agora/internal/middleware"
	"github.com/thereayou/agora/internal/services"
	"github.com/thereayou/agora/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	blacklist *services.TokenBlacklist,
	resolver *services.IdentityResolver,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	chatH *handlers.ChatHandler,
	notifH *handlers.NotificationHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/login/oauth", authH.OAuthLogin)
		authGroup.POST("/logout", authH.Logout)
		authGroup.POST("/reactivate", authH.Reactivate)
	}

	// WebSocket: аутентификация внутри канала, connect-фреймом
	r.GET("/ws", wsH.HandleWebSocket)

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, blacklist, resolver))
	{
		users := api.Group("/users")
		{
			users.GET("/me", userH.GetMe)
			users.PATCH("/me", userH.UpdateMe)
			users.POST("/me/deactivate", userH.DeactivateMe)
			users.GET("/search", userH.SearchUsers)
			users.GET("/:id", userH.GetUser)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/rooms", chatH.CreateDirectRoom)
			chat.GET("/rooms", chatH.GetMyRooms)
			chat.GET("/rooms/:id/messages", chatH.GetRoomMessages)
			chat.POST("/messages", chatH.SendMessage)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notifH.List)
			notifications.POST("/:id/read", notifH.MarkRead)
			notifications.POST("/read-all", notifH.MarkAllRead)
		}
	}
}
