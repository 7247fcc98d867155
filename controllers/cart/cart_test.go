package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BeastofOne/soggy-potatoes/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.GuestSession{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

// cartRouter mounts the cart handlers. userID == 0 leaves requests anonymous
// so the guest session path is exercised.
func cartRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authStub := func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	}
	group := r.Group("/cart", authStub)
	group.GET("", GetCart(db))
	group.POST("", UpdateCartItem(db))
	group.DELETE("/:product_id", DeleteCartItem(db))
	group.DELETE("", ClearCart(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, sessionKey string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionKey != "" {
		req.Header.Set("X-Session-Key", sessionKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:           name,
		Price:          price,
		Stock:          stock,
		TrackInventory: true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestCartSubtotalUsesCurrentPrices(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	regular := seedProduct(t, db, "Russet Potato", 4.00, 10)
	onSale := seedProduct(t, db, "Golden Potato", 10.00, 10)
	require.NoError(t, db.Model(&onSale).Update("sale_price", 7.50).Error)

	r := cartRouter(db, user.ID)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: regular.ID, Quantity: 2}, "").Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: onSale.ID, Quantity: 3}, "").Code)

	w := doJSON(t, r, http.MethodGet, "/cart", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Subtotal   float64 `json:"subtotal"`
		TotalItems int     `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 2*4.00 + 3*7.50 (sale price wins)
	assert.InDelta(t, 30.50, resp.Subtotal, 0.001)
	assert.Equal(t, 5, resp.TotalItems)
}

func TestCartReplacesQuantity(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := seedProduct(t, db, "Russet Potato", 4.00, 10)

	r := cartRouter(db, user.ID)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 2}, "").Code)
	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 5}, "").Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, 5, item.Quantity)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCartRejectsOverStockQuantity(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := seedProduct(t, db, "Russet Potato", 4.00, 3)

	r := cartRouter(db, user.ID)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 4}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestCartWithSessionKey(t *testing.T) {
	db := setupDB(t)
	session := models.GuestSession{Key: "guest-key-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&session).Error)
	product := seedProduct(t, db, "Russet Potato", 4.00, 10)

	r := cartRouter(db, 0)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 2}, session.Key)
	require.Equal(t, http.StatusCreated, w.Code)

	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("session_key = ?", session.Key).First(&cart).Error)
	assert.Nil(t, cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAnonymousWithoutSessionKeyRejected(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, "Russet Potato", 4.00, 10)

	r := cartRouter(db, 0)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 1}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredSessionKeyRejected(t *testing.T) {
	db := setupDB(t)
	session := models.GuestSession{Key: "stale-key", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&session).Error)
	product := seedProduct(t, db, "Russet Potato", 4.00, 10)

	r := cartRouter(db, 0)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 1}, session.Key)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClearCart(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := seedProduct(t, db, "Russet Potato", 4.00, 10)

	r := cartRouter(db, user.ID)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: product.ID, Quantity: 2}, "").Code)
	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodDelete, "/cart", nil, "").Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.Zero(t, count)
}
