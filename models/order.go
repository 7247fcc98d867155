package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // payment confirmed
	OrderStatusProcessing OrderStatus = "processing" // being packed
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // terminal
	OrderStatusCancelled  OrderStatus = "cancelled"  // terminal
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// statusRank orders the linear progression. Cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(s))
	if _, ok := statusRank[status]; ok {
		return status, nil
	}
	if status == OrderStatusCancelled {
		return status, nil
	}
	return "", ErrInvalidOrderStatus
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo allows single forward steps along the progression and
// cancellation from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	User        User        `json:"-"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	Status      OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`

	ShippingName    string `gorm:"not null" json:"shipping_name"`
	ShippingAddress string `gorm:"not null" json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
	ShippingCountry string `gorm:"default:'United States'" json:"shipping_country"`

	Email string `gorm:"not null" json:"email"`
	Phone string `json:"phone"`

	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`

	PaymentRef string     `json:"payment_ref"`
	PaidAt     *time.Time `json:"paid_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem captures the product name and unit price at purchase time so the
// order survives later product edits or deletion.
type OrderItem struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	OrderID      uint     `gorm:"index" json:"order_id"`
	ProductID    *uint    `json:"product_id"`
	Product      *Product `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName  string   `gorm:"not null" json:"product_name"`
	ProductPrice float64  `gorm:"not null" json:"product_price"`
	Quantity     int      `gorm:"not null;default:1" json:"quantity"`
}

func (oi *OrderItem) TotalPrice() float64 {
	return oi.ProductPrice * float64(oi.Quantity)
}
