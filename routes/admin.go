package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	forumControllers "github.com/BeastofOne/soggy-potatoes/controllers/forum"
	messagingControllers "github.com/BeastofOne/soggy-potatoes/controllers/messaging"
	orderControllers "github.com/BeastofOne/soggy-potatoes/controllers/order"
	productcontroller "github.com/BeastofOne/soggy-potatoes/controllers/product"
	reviewControllers "github.com/BeastofOne/soggy-potatoes/controllers/review"
	userControllers "github.com/BeastofOne/soggy-potatoes/controllers/user"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupAdminRoutes registers all /admin/* endpoints behind the API-key
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrders(db))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderAdmin.PUT("/:order_number/status", orderControllers.UpdateOrderStatus(db))
		}

		reviewAdmin := adminGroup.Group("/reviews")
		{
			reviewAdmin.PUT("/:id/approve", reviewControllers.SetReviewApproval(db))
			reviewAdmin.DELETE("/:id", reviewControllers.DeleteReview(db))
		}

		forumAdmin := adminGroup.Group("/forum")
		{
			forumAdmin.POST("/categories", forumControllers.CreateForumCategory(db))
			forumAdmin.PUT("/categories/:id", forumControllers.UpdateForumCategory(db))
			forumAdmin.DELETE("/categories/:id", forumControllers.DeleteForumCategory(db))
			forumAdmin.PUT("/threads/:id/pin", forumControllers.PinThread(db))
			forumAdmin.PUT("/threads/:id/lock", forumControllers.LockThread(db))
			forumAdmin.DELETE("/posts/:id", forumControllers.DeletePost(db))
		}

		wordAdmin := adminGroup.Group("/blocked-words")
		{
			wordAdmin.GET("", messagingControllers.GetBlockedWords(db))
			wordAdmin.POST("", messagingControllers.CreateBlockedWord(db))
			wordAdmin.DELETE("/:id", messagingControllers.DeleteBlockedWord(db))
		}
	}
}
