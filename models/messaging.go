package models

import "time"

// Conversation is a private thread between two users.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Participants []User    `gorm:"many2many:conversation_participants" json:"participants"`
	Messages     []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint   `gorm:"not null" json:"sender_id"`
	Sender         User   `json:"sender"`
	Content        string `gorm:"not null" json:"content"`
	IsRead         bool   `json:"is_read"`

	// When the content matched a blocked word the sanitized text goes in
	// Content and the original is kept for moderation.
	IsFiltered      bool   `json:"is_filtered"`
	OriginalContent string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type BlockedWordCategory string

const (
	BlockedWordNSFW      BlockedWordCategory = "nsfw"
	BlockedWordDangerous BlockedWordCategory = "dangerous"
	BlockedWordSpam      BlockedWordCategory = "spam"
	BlockedWordProfanity BlockedWordCategory = "profanity"
	BlockedWordOther     BlockedWordCategory = "other"
)

type BlockedWord struct {
	ID       uint                `gorm:"primaryKey" json:"id"`
	Word     string              `gorm:"uniqueIndex;not null" json:"word"`
	Category BlockedWordCategory `gorm:"type:VARCHAR(50);default:'other'" json:"category"`
	IsActive bool                `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}
