package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	forumControllers "github.com/BeastofOne/soggy-potatoes/controllers/forum"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupForumRoutes registers the community forum endpoints. Reading is
// public; posting and reacting require a login.
func SetupForumRoutes(r *gin.Engine, db *gorm.DB) {
	forum := r.Group("/forum")
	forum.Use(middleware.OptionalToken)
	{
		forum.GET("/categories", forumControllers.GetForumCategories(db))
		forum.GET("/:category_slug", forumControllers.GetCategoryThreads(db))
		forum.GET("/:category_slug/:thread_slug", forumControllers.GetThread(db))
	}

	protected := r.Group("/forum")
	protected.Use(middleware.ValidateToken)
	{
		protected.POST("/:category_slug/threads", forumControllers.CreateThread(db))
		protected.POST("/:category_slug/:thread_slug/reply", forumControllers.CreateReply(db))
		protected.PUT("/posts/:id", forumControllers.EditPost(db))
		protected.POST("/reactions", forumControllers.ToggleReactionHandler(db))
	}
}
