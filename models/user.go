package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsAdmin      bool   `json:"is_admin"`

	Profile Profile `gorm:"embedded" json:"profile"`

	Cart    *Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders  []Order  `gorm:"foreignKey:UserID" json:"-"`
	Reviews []Review `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the public "about me" fields embedded in User.
type Profile struct {
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`
	Website  string `json:"website"`
}

// GuestSession identifies an anonymous shopper. The key is sent back by the
// client in the X-Session-Key header and owns at most one cart.
type GuestSession struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
