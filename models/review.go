package models

import "time"

// Review is unique per (product, user); a second attempt by the same pair is
// rejected by the composite index.
type Review struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProductID uint `gorm:"uniqueIndex:idx_product_user_review;not null" json:"product_id"`
	UserID    uint `gorm:"uniqueIndex:idx_product_user_review;not null" json:"user_id"`
	User      User `json:"user"`

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Title   string `gorm:"not null" json:"title"`
	Comment string `json:"comment"`

	// Set at creation when the user has a delivered order containing the product.
	IsVerifiedPurchase bool `json:"is_verified_purchase"`
	IsApproved         bool `gorm:"default:true" json:"is_approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Wishlist struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Products []Product `gorm:"many2many:wishlist_products" json:"products"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
