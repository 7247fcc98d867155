package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/BeastofOne/soggy-potatoes/controllers/payment"
	"github.com/BeastofOne/soggy-potatoes/middleware"
)

// SetupPaymentRoutes registers the payment gateway endpoints.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	payment := r.Group("/payment")
	{
		payment.POST("/session",
			middleware.ValidateToken,
			paymentControllers.CreatePaymentSession(db),
		)

		// Webhook endpoint: middleware verifies the gateway signature
		// (skipped in sandbox/dev mode).
		payment.POST("/webhook",
			middleware.PaymentWebhookAuth(),
			paymentControllers.PaymentWebhook(db),
		)
	}
}
