package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/BeastofOne/soggy-potatoes/controllers/order"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupOrderRoutes registers checkout and order-history endpoints.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("/checkout", orderControllers.CheckoutHandler(db))
		orders.GET("", orderControllers.GetUserOrders(db))
		orders.GET("/:order_number", orderControllers.GetOrderByNumber(db))
		orders.POST("/:order_number/cancel", orderControllers.CancelOrder(db))
	}
}
