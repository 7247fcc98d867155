package productcontroller

import (
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
		&models.Category{},
		&models.Product{},
		&models.Review{},
	))
	return db
}

func productRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", GetProducts(db))
	r.GET("/products/:slug", GetProductBySlug(db))
	r.GET("/categories", GetAllCategories(db))
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listProducts(t *testing.T, r *gin.Engine, path string) []map[string]any {
	t.Helper()
	w := get(t, r, path)
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	spuds := models.Category{Name: "Fresh Spuds", IsActive: true}
	merch := models.Category{Name: "Merch", IsActive: true}
	require.NoError(t, db.Create(&spuds).Error)
	require.NoError(t, db.Create(&merch).Error)

	sale := 3.00
	products := []models.Product{
		{Name: "Russet Potato", Price: 4.00, SalePrice: &sale, CategoryID: &spuds.ID, IsActive: true, IsFeatured: true},
		{Name: "Golden Potato", Price: 5.00, CategoryID: &spuds.ID, IsActive: true},
		{Name: "Potato T-Shirt", Price: 18.00, CategoryID: &merch.ID, IsActive: true},
		{Name: "Discontinued Spud", Price: 1.00, CategoryID: &spuds.ID, IsActive: false},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestGetProductsHidesInactive(t *testing.T) {
	db := setupDB(t)
	seedCatalog(t, db)
	r := productRouter(db)

	out := listProducts(t, r, "/products")
	require.Len(t, out, 3)
	for _, p := range out {
		assert.NotEqual(t, "Discontinued Spud", p["name"])
	}
}

func TestGetProductsFilters(t *testing.T) {
	db := setupDB(t)
	seedCatalog(t, db)
	r := productRouter(db)

	byCategory := listProducts(t, r, "/products?category=fresh-spuds")
	assert.Len(t, byCategory, 2)

	bySearch := listProducts(t, r, "/products?q=Shirt")
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Potato T-Shirt", bySearch[0]["name"])

	featured := listProducts(t, r, "/products?featured=true")
	require.Len(t, featured, 1)
	assert.Equal(t, "Russet Potato", featured[0]["name"])
}

func TestGetProductsComputedFields(t *testing.T) {
	db := setupDB(t)
	seedCatalog(t, db)
	r := productRouter(db)

	out := listProducts(t, r, "/products?featured=true")
	require.Len(t, out, 1)
	assert.InDelta(t, 3.00, out[0]["current_price"].(float64), 0.001)
	assert.Equal(t, true, out[0]["is_on_sale"])
	assert.InDelta(t, 25, out[0]["discount_percent"].(float64), 0.001)
}

func TestGetProductBySlugWithRatings(t *testing.T) {
	db := setupDB(t)
	seedCatalog(t, db)

	var product models.Product
	require.NoError(t, db.Where("slug = ?", "golden-potato").First(&product).Error)

	for i, rating := range []int{5, 3} {
		user := models.User{
			Username:     "reviewer" + string(rune('a'+i)),
			Email:        "reviewer" + string(rune('a'+i)) + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&user).Error)
		require.NoError(t, db.Create(&models.Review{
			ProductID: product.ID, UserID: user.ID, Rating: rating, Title: "ok", IsApproved: true,
		}).Error)
	}

	r := productRouter(db)
	w := get(t, r, "/products/golden-potato")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AverageRating float64         `json:"average_rating"`
		ReviewCount   int64           `json:"review_count"`
		Reviews       []models.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 4.0, resp.AverageRating, 0.001)
	assert.EqualValues(t, 2, resp.ReviewCount)
	assert.Len(t, resp.Reviews, 2)
}

func TestGetProductBySlugNotFound(t *testing.T) {
	db := setupDB(t)
	r := productRouter(db)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/products/nope").Code)
}
