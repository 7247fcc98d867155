package messagingControllers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/middleware"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// maskWord replaces case-insensitive occurrences of word with asterisks.
// Matching is done rune-wise on the original string; lowering a copy first
// would shift byte offsets for runes whose case pair differs in length.
// The scan always advances past a replacement, so words that themselves
// contain asterisks cannot loop.
func maskWord(content, word string) (string, bool) {
	wordLen := utf8.RuneCountInString(word)
	if wordLen == 0 {
		return content, false
	}

	runes := []rune(content)
	matched := false
	var b strings.Builder
	for i := 0; i < len(runes); {
		if i+wordLen <= len(runes) && strings.EqualFold(string(runes[i:i+wordLen]), word) {
			b.WriteString(strings.Repeat("*", wordLen))
			i += wordLen
			matched = true
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	if !matched {
		return content, false
	}
	return b.String(), true
}

// filterContent replaces active blocked words with asterisks. Returns the
// filtered text and whether anything matched.
func filterContent(db *gorm.DB, content string) (string, bool) {
	var words []models.BlockedWord
	if err := db.Where("is_active = ?", true).Find(&words).Error; err != nil {
		return content, false
	}

	filtered := content
	matched := false
	for _, w := range words {
		out, hit := maskWord(filtered, w.Word)
		if hit {
			filtered = out
			matched = true
		}
	}
	return filtered, matched
}

// findOrCreateConversation returns the existing two-party conversation or
// creates one.
func findOrCreateConversation(db *gorm.DB, userID, otherID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := db.
		Joins("JOIN conversation_participants cp1 ON cp1.conversation_id = conversations.id AND cp1.user_id = ?", userID).
		Joins("JOIN conversation_participants cp2 ON cp2.conversation_id = conversations.id AND cp2.user_id = ?", otherID).
		First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var users []models.User
	if err := db.Where("id IN ?", []uint{userID, otherID}).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, gorm.ErrRecordNotFound
	}

	conversation = models.Conversation{Participants: users}
	if err := db.Create(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GET /messages/conversations
func GetConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var conversations []models.Conversation
		err := db.Preload("Participants").
			Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
			Order("conversations.updated_at DESC").
			Find(&conversations).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
			return
		}

		type conversationView struct {
			models.Conversation
			UnreadCount int64           `json:"unread_count"`
			LastMessage *models.Message `json:"last_message"`
		}
		out := make([]conversationView, 0, len(conversations))
		for _, conv := range conversations {
			view := conversationView{Conversation: conv}
			db.Model(&models.Message{}).
				Where("conversation_id = ? AND is_read = ? AND sender_id <> ?", conv.ID, false, userID).
				Count(&view.UnreadCount)
			var last models.Message
			if err := db.Where("conversation_id = ?", conv.ID).
				Order("created_at DESC").First(&last).Error; err == nil {
				view.LastMessage = &last
			}
			out = append(out, view)
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /messages/conversations/:id
//
// Returns the messages and marks the other party's messages read.
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conversation, ok := participantConversation(db, c, userID)
		if !ok {
			return
		}

		var messages []models.Message
		if err := db.Preload("Sender").
			Where("conversation_id = ?", conversation.ID).
			Order("created_at").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}

		db.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ?", conversation.ID, userID).
			Update("is_read", true)

		c.JSON(http.StatusOK, gin.H{"conversation": conversation, "messages": messages})
	}
}

type SendMessageInput struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required,max=5000"`
}

// POST /messages
func SendMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input SendMessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.RecipientID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
			return
		}

		conversation, err := findOrCreateConversation(db, userID, input.RecipientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient not found"})
			return
		}

		filtered, wasFiltered := filterContent(db, input.Content)
		message := models.Message{
			ConversationID: conversation.ID,
			SenderID:       userID,
			Content:        filtered,
			IsFiltered:     wasFiltered,
		}
		if wasFiltered {
			message.OriginalContent = input.Content
		}

		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
			return
		}
		db.Model(conversation).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))

		notification := models.Notification{
			UserID:     input.RecipientID,
			Type:       models.NotificationMessage,
			Title:      "New message",
			Message:    "You have a new private message.",
			Link:       "/messages",
			FromUserID: &userID,
		}
		db.Create(&notification)

		c.JSON(http.StatusCreated, message)
	}
}

func participantConversation(db *gorm.DB, c *gin.Context, userID uint) (*models.Conversation, bool) {
	var conversation models.Conversation
	err := db.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Where("conversations.id = ?", c.Param("id")).
		First(&conversation).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return nil, false
	}
	return &conversation, true
}

// Admin blocked-word management.

// GET /admin/blocked-words
func GetBlockedWords(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var words []models.BlockedWord
		if err := db.Order("word").Find(&words).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked words"})
			return
		}
		c.JSON(http.StatusOK, words)
	}
}

// POST /admin/blocked-words
func CreateBlockedWord(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Word     string                     `json:"word" binding:"required"`
			Category models.BlockedWordCategory `json:"category"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
			return
		}
		if input.Category == "" {
			input.Category = models.BlockedWordOther
		}

		word := models.BlockedWord{Word: input.Word, Category: input.Category, IsActive: true}
		if err := db.Create(&word).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Word already blocked"})
			return
		}
		c.JSON(http.StatusCreated, word)
	}
}

// DELETE /admin/blocked-words/:id
func DeleteBlockedWord(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.BlockedWord{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blocked word"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blocked word not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Blocked word deleted"})
	}
}
