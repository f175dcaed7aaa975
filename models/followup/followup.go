package followup

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

// FollowUpEntry is one append-only record of an action taken against a lead.
// Entries are never updated or deleted; together they form the full audit
// trail for the lead. Amount fields are point-in-time snapshots and are never
// recomputed when a later entry changes them.
type FollowUpEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	LeadID uint      `gorm:"not null;index" json:"lead_id"`
	Lead   lead.Lead `gorm:"foreignKey:LeadID" json:"lead"`

	ActionType ActionType `gorm:"type:varchar(30);not null;index" json:"action_type"`

	ActorID uint      `gorm:"not null;index" json:"actor_id"`
	Actor   user.User `gorm:"foreignKey:ActorID" json:"actor"`

	Note string `gorm:"type:text" json:"note"`

	// follow_up class payload
	NextFollowUpDate *time.Time `json:"next_follow_up_date,omitempty"`
	NextFollowUpTime *string    `gorm:"type:varchar(5)" json:"next_follow_up_time,omitempty"`

	// confirmed_advance_paid payload; due = total - advance at write time
	ItineraryID   *string          `gorm:"type:varchar(100)" json:"itinerary_id,omitempty"`
	TotalAmount   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_amount,omitempty"`
	AdvanceAmount *decimal.Decimal `gorm:"type:decimal(15,2)" json:"advance_amount,omitempty"`
	DueAmount     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"due_amount,omitempty"`
	TransactionID *string          `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	// dead payload
	DeadReason *string `gorm:"type:text" json:"dead_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the FollowUpEntry model
func (FollowUpEntry) TableName() string {
	return "follow_up_entries"
}

// HasFinancials reports whether this entry carries an amount snapshot.
func (e *FollowUpEntry) HasFinancials() bool {
	return e.TotalAmount != nil && e.AdvanceAmount != nil && e.DueAmount != nil
}
