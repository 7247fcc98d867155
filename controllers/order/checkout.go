package orderControllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/mail"
	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CheckoutRequest struct {
	ShippingName    string `json:"shipping_name" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
	ShippingCountry string `json:"shipping_country"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
}

// generateOrderNumber produces SP-YYYYMMDD-NNNN with four random digits.
// Collisions are handled by the caller retrying against the unique index.
var generateOrderNumber = func() string {
	return fmt.Sprintf("SP-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// shippingCost is a flat rate waived above the free-shipping threshold.
func shippingCost(subtotal float64) float64 {
	flat := envFloat("SHIPPING_FLAT_RATE", 5.00)
	threshold := envFloat("FREE_SHIPPING_THRESHOLD", 50.00)
	if threshold > 0 && subtotal >= threshold {
		return 0
	}
	return flat
}

// Checkout converts the user's cart into an order in a single transaction.
//
// Stock is claimed with a conditional decrement (UPDATE ... WHERE stock >= q)
// so two concurrent checkouts can never jointly oversell a product: the row
// lock taken by the UPDATE serializes them and the loser's transaction rolls
// back with no partial state.
func Checkout(db *gorm.DB, userID uint, req CheckoutRequest) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	country := req.ShippingCountry
	if country == "" {
		country = "United States"
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]models.OrderItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}

			if product.TrackInventory {
				res := tx.Model(&models.Product{}).
					Where("id = ? AND stock >= ?", product.ID, item.Quantity).
					UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("%w for product %q", ErrInsufficientStock, product.Name)
				}
			}

			unitPrice := product.CurrentPrice()
			subtotal += unitPrice * float64(item.Quantity)

			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID:    &productID,
				ProductName:  product.Name,
				ProductPrice: unitPrice,
				Quantity:     item.Quantity,
			})
		}

		shipping := shippingCost(subtotal)
		order = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			ShippingName:    req.ShippingName,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingZip:     req.ShippingZip,
			ShippingCountry: country,
			Email:           req.Email,
			Phone:           req.Phone,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			Total:           subtotal + shipping,
			Items:           items,
		}

		// Retry the random suffix on the (rare) unique-index collision.
		// Each attempt runs inside a savepoint: postgres aborts the whole
		// transaction after a failed INSERT, so the retry must roll back to
		// a clean state first.
		var createErr error
		for attempt := 0; attempt < 5; attempt++ {
			order.OrderNumber = generateOrderNumber()
			if err := tx.SavePoint("create_order").Error; err != nil {
				return err
			}
			if createErr = tx.Create(&order).Error; createErr == nil {
				break
			}
			if err := tx.RollbackTo("create_order").Error; err != nil {
				return err
			}
			order.ID = 0
		}
		if createErr != nil {
			return createErr
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, req)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInsufficientStock) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			return
		}

		go mail.SendOrderConfirmation(order.Email, order.OrderNumber, order.Total)
		notifyOrderStatus(db, order)
		broadcastOrderUpdate(order)

		c.JSON(http.StatusCreated, order)
	}
}
