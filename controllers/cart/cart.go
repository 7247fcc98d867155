package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/auth"
	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

var errNoCartOwner = errors.New("no cart owner")

// resolveCart finds (or creates) the caller's cart. An authenticated user
// owns a cart by user id; otherwise a valid X-Session-Key header owns one by
// session. A cart never has both owners.
func resolveCart(db *gorm.DB, c *gin.Context, create bool) (*models.Cart, error) {
	var cart models.Cart

	if userID, ok := middleware.UserID(c); ok {
		err := db.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) && create {
			cart = models.Cart{UserID: &userID}
			err = db.Create(&cart).Error
		}
		if err != nil {
			return nil, err
		}
		return &cart, nil
	}

	sessionKey := c.GetHeader("X-Session-Key")
	if sessionKey == "" {
		return nil, errNoCartOwner
	}
	if _, err := auth.LookupGuestSession(db, sessionKey); err != nil {
		return nil, errNoCartOwner
	}

	err := db.Where("session_key = ?", sessionKey).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && create {
		cart = models.Cart{SessionKey: &sessionKey}
		err = db.Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func rejectOwnerless(c *gin.Context, err error) bool {
	if errors.Is(err, errNoCartOwner) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Log in or create a guest session first"})
		return true
	}
	return false
}

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// POST /cart
//
// Adds a product to the cart or replaces the quantity of an existing line.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ? AND is_active = ?", input.ProductID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			}
			return
		}
		if !product.InStock() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product is out of stock"})
			return
		}
		if product.TrackInventory && input.Quantity > product.Stock {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough stock for requested quantity"})
			return
		}

		cart, err := resolveCart(db, c, true)
		if err != nil {
			if rejectOwnerless(c, err) {
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			item.Product = product
			c.JSON(http.StatusCreated, item)
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		item.Product = product
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := resolveCart(db, c, false)
		if err != nil {
			if rejectOwnerless(c, err) {
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.ID, c.Param("product_id")).
			Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := resolveCart(db, c, false)
		if err != nil {
			if rejectOwnerless(c, err) {
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := resolveCart(db, c, true)
		if err != nil {
			if rejectOwnerless(c, err) {
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if err := db.Preload("Items.Product").First(cart, cart.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart":        cart,
			"subtotal":    cart.Subtotal(),
			"total_items": cart.TotalItems(),
		})
	}
}
