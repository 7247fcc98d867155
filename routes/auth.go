package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/auth"
	userControllers "github.com/BeastofOne/soggy-potatoes/controllers/user"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupAuthRoutes registers the public /auth/* endpoints and the
// JWT-protected /user/* profile endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/guest", auth.CreateGuestSession(db))
	}

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("", userControllers.GetProfile(db))
		userGroup.PUT("", userControllers.UpdateProfile(db))
		userGroup.POST("/avatar", userControllers.UploadAvatar(db))
	}
}
