package models

import "time"

// Cart belongs to exactly one authenticated user or one guest session, never
// both. The check constraint backs up the code paths that create carts.
type Cart struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     *uint   `gorm:"uniqueIndex;check:chk_cart_owner,(user_id IS NOT NULL AND session_key IS NULL) OR (user_id IS NULL AND session_key IS NOT NULL)" json:"user_id"`
	SessionKey *string `gorm:"uniqueIndex" json:"session_key"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal sums current unit price times quantity over the cart. Items must
// be loaded with their Product.
func (c *Cart) Subtotal() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].TotalPrice()
	}
	return total
}

// TotalItems returns the total quantity across all items.
func (c *Cart) TotalItems() int {
	var n int
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE" json:"product"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`

	AddedAt time.Time `json:"added_at"`
}

// TotalPrice is the live line total; carts always price at the product's
// current price, unlike order items which snapshot it.
func (ci *CartItem) TotalPrice() float64 {
	return ci.Product.CurrentPrice() * float64(ci.Quantity)
}
