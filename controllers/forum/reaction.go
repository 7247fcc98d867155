package forumControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

func threadVotes(db *gorm.DB, threadID uint) (up, down int64) {
	db.Model(&models.Reaction{}).
		Where("thread_id = ? AND reaction_type = ?", threadID, models.ReactionUpvote).
		Count(&up)
	db.Model(&models.Reaction{}).
		Where("thread_id = ? AND reaction_type = ?", threadID, models.ReactionDownvote).
		Count(&down)
	return up, down
}

func postVotes(db *gorm.DB, postID uint) (up, down int64) {
	db.Model(&models.Reaction{}).
		Where("post_id = ? AND reaction_type = ?", postID, models.ReactionUpvote).
		Count(&up)
	db.Model(&models.Reaction{}).
		Where("post_id = ? AND reaction_type = ?", postID, models.ReactionDownvote).
		Count(&down)
	return up, down
}

func threadScore(db *gorm.DB, threadID uint) int64 {
	up, down := threadVotes(db, threadID)
	return up - down
}

type ReactionInput struct {
	ReactionType models.ReactionType `json:"reaction_type"`
	ThreadID     *uint               `json:"thread_id"`
	PostID       *uint               `json:"post_id"`
}

// ToggleReaction removes an identical (user, target, type) reaction or
// creates it. Creating an up/downvote removes the user's opposite vote on
// the same target first. Returns "added" or "removed".
func ToggleReaction(db *gorm.DB, userID uint, input ReactionInput) (string, error) {
	reaction := models.Reaction{UserID: userID, Type: input.ReactionType}

	targetColumn := ""
	var targetID uint
	switch {
	case input.ThreadID != nil && input.PostID == nil:
		targetColumn, targetID = "thread_id", *input.ThreadID
		reaction.ThreadID = input.ThreadID
	case input.PostID != nil && input.ThreadID == nil:
		targetColumn, targetID = "post_id", *input.PostID
		reaction.PostID = input.PostID
	default:
		return "", errors.New("must specify exactly one of thread_id or post_id")
	}

	action := ""
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("user_id = ? AND "+targetColumn+" = ? AND reaction_type = ?",
			userID, targetID, input.ReactionType).
			First(&existing).Error

		if err == nil {
			action = "removed"
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if opposite := input.ReactionType.Opposite(); opposite != "" {
			if err := tx.Where("user_id = ? AND "+targetColumn+" = ? AND reaction_type = ?",
				userID, targetID, opposite).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}

		action = "added"
		return tx.Create(&reaction).Error
	})
	return action, err
}

// POST /forum/reactions
func ToggleReactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReactionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.ReactionType == "" {
			input.ReactionType = models.ReactionUpvote
		}
		if !models.ValidReactionType(input.ReactionType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reaction type"})
			return
		}

		// Validate the target exists before toggling.
		if input.ThreadID != nil {
			var thread models.Thread
			if err := db.First(&thread, *input.ThreadID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
				return
			}
		}
		if input.PostID != nil {
			var post models.Post
			if err := db.First(&post, *input.PostID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
		}

		action, err := ToggleReaction(db, userID, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var up, down int64
		if input.ThreadID != nil {
			up, down = threadVotes(db, *input.ThreadID)
		} else {
			up, down = postVotes(db, *input.PostID)
		}

		c.JSON(http.StatusOK, gin.H{
			"action":    action,
			"upvotes":   up,
			"downvotes": down,
			"score":     up - down,
		})
	}
}
