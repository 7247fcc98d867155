package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	messagingControllers "github.com/BeastofOne/soggy-potatoes/controllers/messaging"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupMessagingRoutes registers private messaging and notification
// endpoints. Everything here requires a login.
func SetupMessagingRoutes(r *gin.Engine, db *gorm.DB) {
	messages := r.Group("/messages")
	messages.Use(middleware.ValidateToken)
	{
		messages.GET("/conversations", messagingControllers.GetConversations(db))
		messages.GET("/conversations/:id", messagingControllers.GetMessages(db))
		messages.POST("", messagingControllers.SendMessage(db))
	}

	notifications := r.Group("/notifications")
	notifications.Use(middleware.ValidateToken)
	{
		notifications.GET("", messagingControllers.GetNotifications(db))
		notifications.PUT("/read-all", messagingControllers.MarkAllNotificationsRead(db))
		notifications.PUT("/:id/read", messagingControllers.MarkNotificationRead(db))
	}
}
