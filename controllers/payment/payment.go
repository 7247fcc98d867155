package paymentControllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// gatewayResponse is the hosted-checkout session returned by the payment
// gateway (charge-and-confirm contract).
type gatewayResponse struct {
	Session struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"session"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func gatewayConfig() (apiURL, apiKey string, err error) {
	apiURL = os.Getenv("PAYMENT_API_URL")
	apiKey = os.Getenv("PAYMENT_API_KEY")
	if apiURL == "" || apiKey == "" {
		return "", "", fmt.Errorf("payment gateway configuration missing")
	}
	return apiURL, apiKey, nil
}

// createCheckoutSession asks the gateway for a hosted payment page for the
// order and returns (payment URL, gateway ref).
func createCheckoutSession(order *models.Order) (string, string, error) {
	apiURL, apiKey, err := gatewayConfig()
	if err != nil {
		return "", "", err
	}

	payload := map[string]interface{}{
		"method":  "create",
		"authkey": apiKey,
		"order": map[string]interface{}{
			"number":      order.OrderNumber,
			"amount":      fmt.Sprintf("%.2f", order.Total),
			"currency":    "USD",
			"description": fmt.Sprintf("Soggy Potatoes order %s", order.OrderNumber),
		},
		"customer": map[string]string{
			"name":  order.ShippingName,
			"email": order.Email,
			"phone": order.Phone,
		},
		"return": map[string]string{
			"success":   os.Getenv("PAYMENT_SUCCESS_URL"),
			"cancelled": os.Getenv("PAYMENT_CANCEL_URL"),
		},
	}

	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var gw gatewayResponse
	if err := json.Unmarshal(body, &gw); err != nil {
		return "", "", fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if gw.Error != nil {
		return "", "", fmt.Errorf("gateway error: %s", gw.Error.Message)
	}
	if gw.Session.URL == "" {
		return "", "", fmt.Errorf("gateway returned empty payment URL")
	}
	return gw.Session.URL, gw.Session.Ref, nil
}

// POST /payment/session
//
// Creates a hosted checkout session for one of the caller's pending orders.
func CreatePaymentSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input struct {
			OrderNumber string `json:"order_number" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_number is required"})
			return
		}

		var order models.Order
		err := db.Where("order_number = ? AND user_id = ?", input.OrderNumber, userID).
			First(&order).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if order.Status != models.OrderStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is not awaiting payment"})
			return
		}

		paymentURL, ref, err := createCheckoutSession(&order)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		db.Model(&order).Update("payment_ref", ref)
		c.JSON(http.StatusOK, gin.H{"payment_url": paymentURL, "payment_ref": ref})
	}
}

type webhookPayload struct {
	OrderNumber string `json:"order_number"`
	Ref         string `json:"ref"`
	Status      string `json:"status"` // "paid" or "failed"
}

// POST /payment/webhook
//
// Confirms an order once the gateway reports payment. The route is guarded
// by middleware.PaymentWebhookAuth.
func PaymentWebhook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload webhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil || payload.OrderNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
			return
		}

		if payload.Status != "paid" {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		var order models.Order
		err := db.Where("order_number = ?", payload.OrderNumber).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			}
			return
		}

		// Replayed webhooks for an already-confirmed order are a no-op.
		if order.PaidAt != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Order already confirmed"})
			return
		}
		if !order.Status.CanTransitionTo(models.OrderStatusConfirmed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order cannot be confirmed"})
			return
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      models.OrderStatusConfirmed,
			"paid_at":     now,
			"payment_ref": payload.Ref,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order confirmed"})
	}
}
