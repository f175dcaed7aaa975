package followup

// ActionType classifies a recorded follow-up action against a lead.
type ActionType string

const (
	ActionItinerarySent        ActionType = "itinerary_sent"
	ActionItineraryUpdated     ActionType = "itinerary_updated"
	ActionFollowUp             ActionType = "follow_up"
	ActionConfirmedAdvancePaid ActionType = "confirmed_advance_paid"
	ActionDead                 ActionType = "dead"
	ActionAlmostConfirmed      ActionType = "almost_confirmed"
)

func (at ActionType) String() string {
	return string(at)
}

func (at ActionType) IsValid() bool {
	switch at {
	case ActionItinerarySent, ActionItineraryUpdated, ActionFollowUp,
		ActionConfirmedAdvancePaid, ActionDead, ActionAlmostConfirmed:
		return true
	default:
		return false
	}
}

// IsFollowUpClass returns true for actions that keep the lead in active
// follow-up and carry a next follow-up date/time.
func (at ActionType) IsFollowUpClass() bool {
	return at == ActionItinerarySent || at == ActionItineraryUpdated || at == ActionFollowUp
}

// IsAnnotation returns true for ledger-only markers that never move status.
func (at ActionType) IsAnnotation() bool {
	return at == ActionAlmostConfirmed
}

// GetAllActionTypes returns all valid action types
func GetAllActionTypes() []ActionType {
	return []ActionType{
		ActionItinerarySent,
		ActionItineraryUpdated,
		ActionFollowUp,
		ActionConfirmedAdvancePaid,
		ActionDead,
		ActionAlmostConfirmed,
	}
}
