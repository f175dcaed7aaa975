package notification

import (
	"time"
)

// Notification is a user-facing alert emitted on lifecycle transition events.
// Delivery mechanics (push, do-not-disturb windows) are a downstream concern;
// this row is what the app's notification screen reads.
type Notification struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	LeadID  uint   `gorm:"index" json:"lead_id"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// IsRead reports whether the user has opened this notification.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
