package reviewControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

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
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))
	return db
}

// reviewRouter wires the handler behind a stub that authenticates userID.
func reviewRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/products/:slug/reviews", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, AddReview(db))
	return r
}

func postReview(t *testing.T, r *gin.Engine, slug string, body ReviewInput) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/products/"+slug+"/reviews", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddReview(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	r := reviewRouter(db, user.ID)
	w := postReview(t, r, product.Slug, ReviewInput{Rating: 5, Title: "Great spud"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.Where("product_id = ? AND user_id = ?", product.ID, user.ID).First(&review).Error)
	assert.Equal(t, 5, review.Rating)
	assert.False(t, review.IsVerifiedPurchase)
	assert.True(t, review.IsApproved)
}

func TestAddReviewDuplicateRejected(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	r := reviewRouter(db, user.ID)
	first := postReview(t, r, product.Slug, ReviewInput{Rating: 5, Title: "Great spud"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postReview(t, r, product.Slug, ReviewInput{Rating: 1, Title: "Changed my mind"})
	assert.Equal(t, http.StatusConflict, second.Code)

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddReviewVerifiedPurchase(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	productID := product.ID
	order := models.Order{
		UserID:          user.ID,
		OrderNumber:     "SP-20260101-0001",
		Status:          models.OrderStatusDelivered,
		ShippingName:    "Pat Spud",
		ShippingAddress: "1 Tuber Lane",
		Email:           user.Email,
		Items: []models.OrderItem{
			{ProductID: &productID, ProductName: product.Name, ProductPrice: 4.00, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	r := reviewRouter(db, user.ID)
	w := postReview(t, r, product.Slug, ReviewInput{Rating: 4, Title: "As delivered"})
	require.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestAddReviewPendingOrderNotVerified(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	productID := product.ID
	order := models.Order{
		UserID:          user.ID,
		OrderNumber:     "SP-20260101-0002",
		Status:          models.OrderStatusPending,
		ShippingName:    "Pat Spud",
		ShippingAddress: "1 Tuber Lane",
		Email:           user.Email,
		Items: []models.OrderItem{
			{ProductID: &productID, ProductName: product.Name, ProductPrice: 4.00, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	r := reviewRouter(db, user.ID)
	w := postReview(t, r, product.Slug, ReviewInput{Rating: 4, Title: "Looks promising"})
	require.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	db := setupDB(t)
	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	r := reviewRouter(db, user.ID)
	w := postReview(t, r, "no-such-product", ReviewInput{Rating: 3, Title: "?"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
