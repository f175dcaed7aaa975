package followup

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ActionRequest is the wire payload for recording a follow-up action against
// a lead. Structural checks live here; per-action-type payload completeness
// is the lifecycle engine's responsibility.
type ActionRequest struct {
	ActionType string `json:"action_type" validate:"required,oneof=itinerary_sent itinerary_updated follow_up confirmed_advance_paid dead almost_confirmed"`
	Note       string `json:"note" validate:"omitempty,max=2000"`

	NextFollowUpDate string `json:"next_follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	NextFollowUpTime string `json:"next_follow_up_time" validate:"omitempty,datetime=15:04"`

	ItineraryID   string          `json:"itinerary_id" validate:"omitempty,max=100"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	TransactionID string          `json:"transaction_id" validate:"omitempty,max=100"`
	TravelDate    string          `json:"travel_date" validate:"omitempty,datetime=2006-01-02"`
	ReminderTime  string          `json:"reminder_time" validate:"omitempty,datetime=15:04"`

	DeadReason string `json:"dead_reason" validate:"omitempty,max=1000"`
}

func (r ActionRequest) Validate() error {
	return validate.Struct(r)
}
