package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
)

type ratingSummary struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

func summarizeReviews(db *gorm.DB, productID uint) ratingSummary {
	var summary ratingSummary
	row := db.Model(&models.Review{}).
		Select("AVG(rating), COUNT(*)").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Row()
	_ = row.Scan(&summary.AverageRating, &summary.ReviewCount)
	return summary
}

// GET /products
//
// Lists active products. Optional query params: category (slug), q (name
// search), featured=true.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Category").Where("products.is_active = ?", true)

		if categorySlug := c.Query("category"); categorySlug != "" {
			query = query.
				Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.slug = ? AND categories.is_active = ?", categorySlug, true)
		}
		if q := c.Query("q"); q != "" {
			query = query.Where("products.name LIKE ?", "%"+q+"%")
		}
		if c.Query("featured") == "true" {
			query = query.Where("products.is_featured = ?", true)
		}

		var products []models.Product
		if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		type listedProduct struct {
			models.Product
			CurrentPrice    float64 `json:"current_price"`
			IsOnSale        bool    `json:"is_on_sale"`
			InStock         bool    `json:"in_stock"`
			DiscountPercent int     `json:"discount_percent"`
		}

		out := make([]listedProduct, 0, len(products))
		for _, p := range products {
			out = append(out, listedProduct{
				Product:         p,
				CurrentPrice:    p.CurrentPrice(),
				IsOnSale:        p.IsOnSale(),
				InStock:         p.InStock(),
				DiscountPercent: p.DiscountPercent(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /products/:slug
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var product models.Product
		err := db.Preload("Category").
			Where("slug = ? AND is_active = ?", slug, true).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		summary := summarizeReviews(db, product.ID)

		var reviews []models.Review
		db.Preload("User").
			Where("product_id = ? AND is_approved = ?", product.ID, true).
			Order("created_at DESC").
			Find(&reviews)

		c.JSON(http.StatusOK, gin.H{
			"product":          product,
			"current_price":    product.CurrentPrice(),
			"is_on_sale":       product.IsOnSale(),
			"in_stock":         product.InStock(),
			"discount_percent": product.DiscountPercent(),
			"average_rating":   summary.AverageRating,
			"review_count":     summary.ReviewCount,
			"reviews":          reviews,
		})
	}
}

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
