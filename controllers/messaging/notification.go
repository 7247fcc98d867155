package messagingControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// GET /notifications
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		query := db.Where("user_id = ?", userID)
		if c.Query("unread") == "true" {
			query = query.Where("is_read = ?", false)
		}

		var notifications []models.Notification
		if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&unread)

		c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread_count": unread})
	}
}

// PUT /notifications/:id/read
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		result := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Param("id"), userID).
			Update("is_read", true)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
	}
}

// PUT /notifications/read-all
func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Update("is_read", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
	}
}
