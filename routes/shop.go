package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/BeastofOne/soggy-potatoes/controllers/product"
	reviewControllers "github.com/BeastofOne/soggy-potatoes/controllers/review"
	wishlistControllers "github.com/BeastofOne/soggy-potatoes/controllers/wishlist"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupShopRoutes registers the public catalog plus review and wishlist
// endpoints.
func SetupShopRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:slug", productcontroller.GetProductBySlug(db))
	r.GET("/products/:slug/reviews", reviewControllers.GetProductReviews(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))

	protected := r.Group("/")
	protected.Use(middleware.ValidateToken)
	{
		protected.POST("/products/:slug/reviews", reviewControllers.AddReview(db))

		protected.GET("/wishlist", wishlistControllers.GetWishlist(db))
		protected.POST("/wishlist/toggle/:product_id", wishlistControllers.ToggleWishlistProduct(db))
	}
}
