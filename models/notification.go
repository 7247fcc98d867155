package models

import "time"

type NotificationType string

const (
	NotificationMessage NotificationType = "message"
	NotificationOrder   NotificationType = "order"
	NotificationForum   NotificationType = "forum"
	NotificationSystem  NotificationType = "system"
)

type Notification struct {
	ID      uint             `gorm:"primaryKey" json:"id"`
	UserID  uint             `gorm:"index;not null" json:"user_id"`
	Type    NotificationType `gorm:"column:notification_type;type:VARCHAR(20);not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	Link    string           `json:"link"`
	IsRead  bool             `json:"is_read"`

	FromUserID *uint `json:"from_user_id"`

	CreatedAt time.Time `json:"created_at"`
}
