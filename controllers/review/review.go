package reviewControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"required"`
	Comment string `json:"comment"`
}

// hasDeliveredOrderWith reports whether the user has a delivered order
// containing the product.
func hasDeliveredOrderWith(db *gorm.DB, userID, productID uint) bool {
	var count int64
	db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, models.OrderStatusDelivered, productID).
		Count(&count)
	return count > 0
}

// POST /products/:slug/reviews
//
// One review per (user, product); a second attempt is rejected.
func AddReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.Where("slug = ? AND is_active = ?", c.Param("slug"), true).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var existing models.Review
		err := db.Where("product_id = ? AND user_id = ?", product.ID, userID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing review"})
			return
		}

		review := models.Review{
			ProductID:          product.ID,
			UserID:             userID,
			Rating:             input.Rating,
			Title:              input.Title,
			Comment:            input.Comment,
			IsVerifiedPurchase: hasDeliveredOrderWith(db, userID, product.ID),
			IsApproved:         true,
		}

		if err := db.Create(&review).Error; err != nil {
			// Unique index backs up the pre-check under concurrency.
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GET /products/:slug/reviews
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var reviews []models.Review
		if err := db.Preload("User").
			Where("product_id = ? AND is_approved = ?", product.ID, true).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// PUT /admin/reviews/:id/approve
func SetReviewApproval(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Approved *bool `json:"approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "approved is required"})
			return
		}

		result := db.Model(&models.Review{}).
			Where("id = ?", c.Param("id")).
			Update("is_approved", *req.Approved)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review updated"})
	}
}

// DELETE /admin/reviews/:id
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Review{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
