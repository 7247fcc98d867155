package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
)

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// saveUploadedImage stores a multipart image under uploads/<subdir> and
// returns its public URL path.
func saveUploadedImage(c *gin.Context, field, subdir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	saveDir := filepath.Join(uploadDir(), subdir)
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("/uploads/%s/%s", subdir, filename), nil
}

// POST /admin/products (multipart form)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		product := models.Product{
			Name:        name,
			Slug:        c.PostForm("slug"),
			Description: c.PostForm("description"),
			Price:       price,
			IsActive:    true,
		}

		if sp := c.PostForm("sale_price"); sp != "" {
			salePrice, err := strconv.ParseFloat(sp, 64)
			if err != nil || salePrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_price"})
				return
			}
			product.SalePrice = &salePrice
		}
		if s := c.PostForm("stock"); s != "" {
			stock, err := strconv.Atoi(s)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			product.Stock = stock
		}
		product.TrackInventory = c.PostForm("track_inventory") == "true"
		product.IsFeatured = c.PostForm("is_featured") == "true"

		if cid := c.PostForm("category_id"); cid != "" {
			id64, err := strconv.ParseUint(cid, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			var category models.Category
			if err := db.First(&category, uint(id64)).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			product.CategoryID = &category.ID
		}

		if imageURL, err := saveUploadedImage(c, "image", "products"); err == nil {
			product.Image = imageURL
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create product (duplicate slug?)"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id (multipart form, partial update)
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if name := c.PostForm("name"); name != "" {
			product.Name = name
		}
		if desc, ok := c.GetPostForm("description"); ok {
			product.Description = desc
		}
		if p := c.PostForm("price"); p != "" {
			price, err := strconv.ParseFloat(p, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			product.Price = price
		}
		if sp, ok := c.GetPostForm("sale_price"); ok {
			if sp == "" {
				product.SalePrice = nil
			} else {
				salePrice, err := strconv.ParseFloat(sp, 64)
				if err != nil || salePrice < 0 {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_price"})
					return
				}
				product.SalePrice = &salePrice
			}
		}
		if s := c.PostForm("stock"); s != "" {
			stock, err := strconv.Atoi(s)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			product.Stock = stock
		}
		if v, ok := c.GetPostForm("track_inventory"); ok {
			product.TrackInventory = v == "true"
		}
		if v, ok := c.GetPostForm("is_active"); ok {
			product.IsActive = v == "true"
		}
		if v, ok := c.GetPostForm("is_featured"); ok {
			product.IsFeatured = v == "true"
		}
		if imageURL, err := saveUploadedImage(c, "image", "products"); err == nil {
			product.Image = imageURL
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// POST /admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{
			Name:        name,
			Slug:        c.PostForm("slug"),
			Description: c.PostForm("description"),
			IsActive:    true,
		}
		if imageURL, err := saveUploadedImage(c, "image", "categories"); err == nil {
			category.Image = imageURL
		}

		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create category (duplicate slug?)"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// PUT /admin/categories/:id
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		if name := c.PostForm("name"); name != "" {
			category.Name = name
		}
		if desc, ok := c.GetPostForm("description"); ok {
			category.Description = desc
		}
		if v, ok := c.GetPostForm("is_active"); ok {
			category.IsActive = v == "true"
		}
		if imageURL, err := saveUploadedImage(c, "image", "categories"); err == nil {
			category.Image = imageURL
		}

		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Category{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
