package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
)

// POST /auth/guest
//
// Issues a session key for anonymous shoppers. The client sends it back in
// the X-Session-Key header to own a cart without an account.
func CreateGuestSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := models.GuestSession{
			Key:       uuid.NewString(),
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		}

		if err := db.Create(&session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest session"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_key": session.Key,
			"expires_at":  session.ExpiresAt,
		})
	}
}

// LookupGuestSession returns the session for a key if it exists and has not
// expired.
func LookupGuestSession(db *gorm.DB, key string) (*models.GuestSession, error) {
	var session models.GuestSession
	if err := db.First(&session, "key = ?", key).Error; err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}
