package notification

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	notificationModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/notification"
)

// Dispatcher emits user-facing alerts on lifecycle events. Fire-and-forget:
// a failed insert is logged and swallowed, it never blocks the transition
// that triggered it.
type Dispatcher struct {
	DB *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{DB: db}
}

// Notify stores an alert for the user. Errors are logged, not returned.
func (d *Dispatcher) Notify(userID uint, title, message string, leadID uint) {
	n := notificationModel.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		LeadID:  leadID,
	}

	if err := d.DB.Create(&n).Error; err != nil {
		logger.Error(fmt.Sprintf("Failed to store notification for user %d", userID), err)
	}
}

// ListForUser returns the user's notifications, newest first.
func (d *Dispatcher) ListForUser(userID uint, unreadOnly bool, limit int) ([]notificationModel.Notification, error) {
	query := d.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []notificationModel.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead stamps a notification as read. Scoped to the owning user so one
// user cannot consume another's alerts.
func (d *Dispatcher) MarkRead(userID, notificationID uint) error {
	result := d.DB.Model(&notificationModel.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
