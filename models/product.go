package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  *uint     `json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	SalePrice   *float64  `json:"sale_price"`
	Image       string    `json:"image"`

	// Stock is only enforced (and reported) when TrackInventory is set.
	Stock          int  `json:"stock"`
	TrackInventory bool `json:"track_inventory"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsFeatured bool `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return nil
}

// CurrentPrice returns the sale price when one is set, otherwise the regular price.
func (p *Product) CurrentPrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) IsOnSale() bool {
	return p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price
}

// InStock always reports true for products that do not track inventory.
func (p *Product) InStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.Stock > 0
}

// DiscountPercent returns the rounded-down discount as a whole percentage.
func (p *Product) DiscountPercent() int {
	if !p.IsOnSale() || p.Price == 0 {
		return 0
	}
	return int((p.Price - *p.SalePrice) / p.Price * 100)
}
