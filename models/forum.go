package models

import (
	"time"

	"gorm.io/gorm"
)

type ForumCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Icon        string `gorm:"default:'bi-chat-dots'" json:"icon"`
	Position    uint   `gorm:"default:0" json:"position"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Threads []Thread `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (fc *ForumCategory) BeforeSave(tx *gorm.DB) error {
	if fc.Slug == "" {
		fc.Slug = Slugify(fc.Name)
	}
	return nil
}

// Thread slugs are unique per category; collisions get a numeric suffix at
// creation time.
type Thread struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CategoryID uint          `gorm:"uniqueIndex:idx_category_thread_slug;not null" json:"category_id"`
	Category   ForumCategory `json:"-"`
	AuthorID   uint          `gorm:"not null" json:"author_id"`
	Author     User          `json:"author"`
	Title      string        `gorm:"not null" json:"title"`
	Slug       string        `gorm:"uniqueIndex:idx_category_thread_slug;not null" json:"slug"`
	Content    string        `gorm:"not null" json:"content"`
	IsPinned   bool          `json:"is_pinned"`
	IsLocked   bool          `json:"is_locked"`
	Views      uint          `gorm:"default:0" json:"views"`

	Posts     []Post     `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []Reaction `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ThreadID uint   `gorm:"index;not null" json:"thread_id"`
	AuthorID uint   `gorm:"not null" json:"author_id"`
	Author   User   `json:"author"`
	Content  string `gorm:"not null" json:"content"`
	IsEdited bool   `json:"is_edited"`

	Reactions []Reaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReactionType string

const (
	ReactionUpvote   ReactionType = "upvote"
	ReactionDownvote ReactionType = "downvote"
	ReactionHeart    ReactionType = "heart"
	ReactionLaugh    ReactionType = "laugh"
	ReactionWow      ReactionType = "wow"
)

func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionUpvote, ReactionDownvote, ReactionHeart, ReactionLaugh, ReactionWow:
		return true
	}
	return false
}

// Opposite returns the counterpart vote for up/downvotes and "" for the
// emote types, which have no mutual exclusion.
func (t ReactionType) Opposite() ReactionType {
	switch t {
	case ReactionUpvote:
		return ReactionDownvote
	case ReactionDownvote:
		return ReactionUpvote
	}
	return ""
}

// Reaction targets exactly one of a thread or a post and is unique per
// (user, target, type). Rows with a NULL in a composite index never collide,
// so the two indexes only bite for their own target kind.
type Reaction struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	UserID   uint         `gorm:"not null;uniqueIndex:idx_user_thread_reaction;uniqueIndex:idx_user_post_reaction" json:"user_id"`
	ThreadID *uint        `gorm:"uniqueIndex:idx_user_thread_reaction;check:chk_reaction_target,(thread_id IS NOT NULL AND post_id IS NULL) OR (thread_id IS NULL AND post_id IS NOT NULL)" json:"thread_id"`
	PostID   *uint        `gorm:"uniqueIndex:idx_user_post_reaction" json:"post_id"`
	Type     ReactionType `gorm:"column:reaction_type;type:VARCHAR(20);not null;uniqueIndex:idx_user_thread_reaction;uniqueIndex:idx_user_post_reaction" json:"reaction_type"`

	CreatedAt time.Time `json:"created_at"`
}
