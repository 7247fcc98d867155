package forumControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/models"
)

// POST /admin/forum/categories
func CreateForumCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
			Position    uint   `json:"position"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		category := models.ForumCategory{
			Name:        input.Name,
			Description: input.Description,
			Icon:        input.Icon,
			Position:    input.Position,
			IsActive:    true,
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create forum category (duplicate slug?)"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// PUT /admin/forum/categories/:id
func UpdateForumCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.ForumCategory
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forum category not found"})
			return
		}

		var input struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Icon        *string `json:"icon"`
			Position    *uint   `json:"position"`
			IsActive    *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			category.Name = *input.Name
			category.Slug = models.Slugify(*input.Name)
		}
		if input.Description != nil {
			category.Description = *input.Description
		}
		if input.Icon != nil {
			category.Icon = *input.Icon
		}
		if input.Position != nil {
			category.Position = *input.Position
		}
		if input.IsActive != nil {
			category.IsActive = *input.IsActive
		}

		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to update forum category (duplicate slug?)"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /admin/forum/categories/:id
func DeleteForumCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.ForumCategory{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete forum category"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forum category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Forum category deleted"})
	}
}

func setThreadFlag(db *gorm.DB, c *gin.Context, column string) {
	var req struct {
		Value *bool `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	result := db.Model(&models.Thread{}).Where("id = ?", c.Param("id")).Update(column, *req.Value)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update thread"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thread updated"})
}

// PUT /admin/forum/threads/:id/pin
func PinThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) { setThreadFlag(db, c, "is_pinned") }
}

// PUT /admin/forum/threads/:id/lock
func LockThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) { setThreadFlag(db, c, "is_locked") }
}

// DELETE /admin/forum/posts/:id
func DeletePost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Post{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
	}
}
