package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/BeastofOne/soggy-potatoes/controllers/cart"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupCartRoutes registers the cart endpoints. They accept either a JWT or
// a guest X-Session-Key, so the token middleware is optional here.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.OptionalToken)
	{
		cartGroup.GET("", cartControllers.GetCart(db))
		cartGroup.POST("", cartControllers.UpdateCartItem(db))
		cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
		cartGroup.DELETE("", cartControllers.ClearCart(db))
	}
}
