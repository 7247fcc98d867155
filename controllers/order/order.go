package orderControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// notifyOrderStatus records an order notification for the order's owner.
func notifyOrderStatus(db *gorm.DB, order *models.Order) {
	notification := models.Notification{
		UserID:  order.UserID,
		Type:    models.NotificationOrder,
		Title:   fmt.Sprintf("Order %s is %s", order.OrderNumber, order.Status),
		Message: fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, order.Status),
		Link:    "/orders/" + order.OrderNumber,
	}
	if err := db.Create(&notification).Error; err != nil {
		// Notifications are best-effort.
		return
	}
}

// GET /orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:order_number
func GetOrderByNumber(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		err := db.Preload("Items").
			Where("order_number = ? AND user_id = ?", c.Param("order_number"), userID).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /orders/:order_number/cancel
//
// Owners may cancel while the order has not reached a terminal state.
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		err := db.Where("order_number = ? AND user_id = ?", c.Param("order_number"), userID).
			First(&order).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("cannot cancel a %s order", order.Status)})
			return
		}

		order.Status = models.OrderStatusCancelled
		if err := db.Model(&order).Update("status", order.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}

		notifyOrderStatus(db, &order)
		broadcastOrderUpdate(&order)
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Preload("Items")
		if status := c.Query("status"); status != "" {
			parsed, err := models.ParseOrderStatus(status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", parsed)
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /admin/orders/:order_number/status
//
// Validates the linear progression; cancellation is allowed from any
// non-terminal state.
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Where("order_number = ?", c.Param("order_number")).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if !order.Status.CanTransitionTo(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid status transition %s -> %s", order.Status, newStatus),
			})
			return
		}

		order.Status = newStatus
		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		notifyOrderStatus(db, &order)
		broadcastOrderUpdate(&order)
		c.JSON(http.StatusOK, order)
	}
}
