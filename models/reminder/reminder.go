package reminder

import (
	"time"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

// ReminderStatus tracks the lifecycle of a scheduled travel reminder.
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusTriggered ReminderStatus = "triggered"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

func (rs ReminderStatus) String() string {
	return string(rs)
}

func (rs ReminderStatus) IsValid() bool {
	switch rs {
	case ReminderStatusPending, ReminderStatusTriggered, ReminderStatusCancelled:
		return true
	default:
		return false
	}
}

// ReminderRecord is a scheduled alert ahead of a confirmed travel date.
// Created only as a side effect of a confirmed_advance_paid transition.
// CalendarEventID is nil when the external calendar was unreachable; the
// database row remains the source of truth.
type ReminderRecord struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	LeadID uint      `gorm:"not null;index" json:"lead_id"`
	Lead   lead.Lead `gorm:"foreignKey:LeadID" json:"lead"`

	SalesPersonID uint      `gorm:"not null;index" json:"sales_person_id"`
	SalesPerson   user.User `gorm:"foreignKey:SalesPersonID" json:"sales_person"`

	TravelDate   time.Time `gorm:"not null" json:"travel_date"`
	ReminderDate time.Time `gorm:"not null" json:"reminder_date"`
	// HH:MM, defaults to 09:00 when the sales actor picked none
	ReminderTime string `gorm:"type:varchar(5);not null" json:"reminder_time"`

	CalendarEventID *string        `gorm:"type:varchar(255)" json:"calendar_event_id,omitempty"`
	Status          ReminderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the ReminderRecord model
func (ReminderRecord) TableName() string {
	return "reminder_records"
}
