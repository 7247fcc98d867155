package forumControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// GET /forum/categories
func GetForumCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.ForumCategory
		if err := db.Where("is_active = ?", true).
			Order("position, name").
			Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch forum categories"})
			return
		}

		type categorySummary struct {
			models.ForumCategory
			ThreadCount int64 `json:"thread_count"`
			PostCount   int64 `json:"post_count"`
		}

		out := make([]categorySummary, 0, len(categories))
		for _, cat := range categories {
			summary := categorySummary{ForumCategory: cat}
			db.Model(&models.Thread{}).Where("category_id = ?", cat.ID).Count(&summary.ThreadCount)
			db.Model(&models.Post{}).
				Joins("JOIN threads ON threads.id = posts.thread_id").
				Where("threads.category_id = ?", cat.ID).
				Count(&summary.PostCount)
			out = append(out, summary)
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /forum/:category_slug
//
// Lists a category's threads, pinned first.
func GetCategoryThreads(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.ForumCategory
		err := db.Where("slug = ? AND is_active = ?", c.Param("category_slug"), true).
			First(&category).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forum category not found"})
			return
		}

		var threads []models.Thread
		if err := db.Preload("Author").
			Where("category_id = ?", category.ID).
			Order("is_pinned DESC, created_at DESC").
			Find(&threads).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threads"})
			return
		}

		type threadSummary struct {
			models.Thread
			ReplyCount int64 `json:"reply_count"`
			Score      int64 `json:"score"`
		}

		out := make([]threadSummary, 0, len(threads))
		for _, t := range threads {
			summary := threadSummary{Thread: t}
			db.Model(&models.Post{}).Where("thread_id = ?", t.ID).Count(&summary.ReplyCount)
			if summary.ReplyCount > 0 {
				summary.ReplyCount-- // the first post is the thread body
			}
			summary.Score = threadScore(db, t.ID)
			out = append(out, summary)
		}

		c.JSON(http.StatusOK, gin.H{"category": category, "threads": out})
	}
}

type CreateThreadInput struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// uniqueThreadSlug suffixes a counter until the slug is free within the
// category.
func uniqueThreadSlug(db *gorm.DB, categoryID uint, title string) string {
	base := models.Slugify(title)
	slug := base
	for counter := 1; ; counter++ {
		var count int64
		db.Model(&models.Thread{}).
			Where("category_id = ? AND slug = ?", categoryID, slug).
			Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// POST /forum/:category_slug/threads
//
// Creates the thread together with its first post.
func CreateThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CreateThreadInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var category models.ForumCategory
		err := db.Where("slug = ? AND is_active = ?", c.Param("category_slug"), true).
			First(&category).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Forum category not found"})
			return
		}

		thread := models.Thread{
			CategoryID: category.ID,
			AuthorID:   userID,
			Title:      input.Title,
			Slug:       uniqueThreadSlug(db, category.ID, input.Title),
			Content:    input.Content,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&thread).Error; err != nil {
				return err
			}
			firstPost := models.Post{
				ThreadID: thread.ID,
				AuthorID: userID,
				Content:  input.Content,
			}
			return tx.Create(&firstPost).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thread"})
			return
		}
		c.JSON(http.StatusCreated, thread)
	}
}

// GET /forum/:category_slug/:thread_slug
//
// Returns the thread with its posts and scores, incrementing the view
// counter. When the caller is authenticated their own reactions are included.
func GetThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		thread, ok := findThread(db, c)
		if !ok {
			return
		}

		db.Model(thread).UpdateColumn("views", gorm.Expr("views + 1"))
		thread.Views++

		var posts []models.Post
		if err := db.Preload("Author").
			Where("thread_id = ?", thread.ID).
			Order("created_at").
			Find(&posts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
			return
		}

		type postView struct {
			models.Post
			Upvotes   int64 `json:"upvotes"`
			Downvotes int64 `json:"downvotes"`
			Score     int64 `json:"score"`
		}
		postViews := make([]postView, 0, len(posts))
		for _, p := range posts {
			up, down := postVotes(db, p.ID)
			postViews = append(postViews, postView{Post: p, Upvotes: up, Downvotes: down, Score: up - down})
		}

		up, down := threadVotes(db, thread.ID)
		resp := gin.H{
			"thread":    thread,
			"posts":     postViews,
			"upvotes":   up,
			"downvotes": down,
			"score":     up - down,
		}

		if userID, ok := middleware.UserID(c); ok {
			var threadReactions []models.Reaction
			db.Where("user_id = ? AND thread_id = ?", userID, thread.ID).Find(&threadReactions)

			postIDs := make([]uint, 0, len(posts))
			for _, p := range posts {
				postIDs = append(postIDs, p.ID)
			}
			var postReactions []models.Reaction
			if len(postIDs) > 0 {
				db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&postReactions)
			}

			resp["user_thread_reactions"] = threadReactions
			resp["user_post_reactions"] = postReactions
		}

		c.JSON(http.StatusOK, resp)
	}
}

type ReplyInput struct {
	Content string `json:"content" binding:"required"`
}

// POST /forum/:category_slug/:thread_slug/reply
//
// Locked threads reject replies.
func CreateReply(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reply content cannot be empty"})
			return
		}

		thread, ok := findThread(db, c)
		if !ok {
			return
		}

		if thread.IsLocked {
			c.JSON(http.StatusForbidden, gin.H{"error": "This thread is locked and cannot receive new replies"})
			return
		}

		post := models.Post{
			ThreadID: thread.ID,
			AuthorID: userID,
			Content:  input.Content,
		}
		if err := db.Create(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post reply"})
			return
		}

		if thread.AuthorID != userID {
			notification := models.Notification{
				UserID:     thread.AuthorID,
				Type:       models.NotificationForum,
				Title:      "New reply in " + thread.Title,
				Message:    "Someone replied to your thread.",
				Link:       "/forum/" + c.Param("category_slug") + "/" + thread.Slug,
				FromUserID: &userID,
			}
			db.Create(&notification)
		}

		c.JSON(http.StatusCreated, post)
	}
}

// PUT /forum/posts/:id
//
// Authors may edit their own posts; the edit is flagged.
func EditPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content cannot be empty"})
			return
		}

		var post models.Post
		if err := db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		if post.AuthorID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
			return
		}

		post.Content = input.Content
		post.IsEdited = true
		if err := db.Save(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit post"})
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

func findThread(db *gorm.DB, c *gin.Context) (*models.Thread, bool) {
	var thread models.Thread
	err := db.Preload("Author").
		Joins("JOIN forum_categories ON forum_categories.id = threads.category_id").
		Where("forum_categories.slug = ? AND threads.slug = ?",
			c.Param("category_slug"), c.Param("thread_slug")).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch thread"})
		}
		return nil, false
	}
	return &thread, true
}
