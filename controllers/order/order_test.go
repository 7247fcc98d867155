package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
)

func orderRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authStub := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
	r.POST("/orders/:order_number/cancel", authStub, CancelOrder(db))
	r.GET("/orders/:order_number", authStub, GetOrderByNumber(db))
	r.PUT("/admin/orders/:order_number/status", UpdateOrderStatus(db))
	return r
}

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		UserID:          userID,
		OrderNumber:     "SP-20260830-" + string(rune('0'+userID%10)) + "001",
		Status:          status,
		ShippingName:    "Pat Spud",
		ShippingAddress: "1 Tuber Lane",
		Email:           "pat@example.com",
		Total:           17.00,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestCancelPendingOrder(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "pat")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	r := orderRouter(db, user.ID)
	req := httptest.NewRequest(http.MethodPost, "/orders/"+order.OrderNumber+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)

	// The owner gets an order notification.
	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&notification).Error)
	assert.Equal(t, models.NotificationOrder, notification.Type)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "pat")
	order := seedOrder(t, db, user.ID, models.OrderStatusDelivered)

	r := orderRouter(db, user.ID)
	req := httptest.NewRequest(http.MethodPost, "/orders/"+order.OrderNumber+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, reloaded.Status)
}

func TestCancelOtherUsersOrderNotFound(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "pat")
	intruder := seedUser(t, db, "mallory")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	r := orderRouter(db, intruder.ID)
	req := httptest.NewRequest(http.MethodPost, "/orders/"+order.OrderNumber+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusProgression(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "pat")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)
	r := orderRouter(db, user.ID)

	putStatus := func(status string) *httptest.ResponseRecorder {
		payload, err := json.Marshal(UpdateOrderStatusRequest{Status: status})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut,
			"/admin/orders/"+order.OrderNumber+"/status", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Skipping a step is rejected.
	assert.Equal(t, http.StatusBadRequest, putStatus("shipped").Code)

	for _, status := range []string{"confirmed", "processing", "shipped", "delivered"} {
		assert.Equal(t, http.StatusOK, putStatus(status).Code, "advancing to %s", status)
	}

	// Delivered is terminal.
	assert.Equal(t, http.StatusBadRequest, putStatus("cancelled").Code)

	assert.Equal(t, http.StatusBadRequest, putStatus("bogus").Code)
}
