package wishlistControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

func findOrCreateWishlist(db *gorm.DB, userID uint) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := db.Where("user_id = ?", userID).First(&wishlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wishlist = models.Wishlist{UserID: userID}
		err = db.Create(&wishlist).Error
	}
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// GET /wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		wishlist, err := findOrCreateWishlist(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		if err := db.Preload("Products").First(wishlist, wishlist.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, wishlist)
	}
}

// POST /wishlist/toggle/:product_id
//
// Adds the product when absent, removes it when present.
func ToggleWishlistProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("product_id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		wishlist, err := findOrCreateWishlist(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		var count int64
		db.Table("wishlist_products").
			Where("wishlist_id = ? AND product_id = ?", wishlist.ID, product.ID).
			Count(&count)

		assoc := db.Model(wishlist).Association("Products")
		if count > 0 {
			if err := assoc.Delete(&product); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"action": "removed", "product_id": product.ID})
			return
		}

		if err := assoc.Append(&product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": "added", "product_id": product.ID})
	}
}
