package lifecycle

import (
	"errors"
	"fmt"

	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
)

// ErrLeadNotFound is returned when the referenced lead does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// ValidationError reports a missing or malformed payload for the requested
// action. Rejected before any persistence; the actor can correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an action that is not permitted from the
// lead's current status. Dead leads reject every action, every time.
type InvalidTransitionError struct {
	LeadID uint
	From   leadModel.LeadStatus
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("lead %d: action %q not permitted from status %q", e.LeadID, e.Action, e.From)
}

// IsValidationError reports whether err is a payload validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidTransition reports whether err is a rejected lifecycle transition.
func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}
