package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/constants"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	followupModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	reminderModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
	userModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

// transitions is the single source of truth for the lead lifecycle. A nil
// edge map marks a terminal status. added_by_sales and confirmed carry empty
// maps: they only leave via Qualify / AllocateToOperations, not via ledger
// actions.
var transitions = map[leadModel.LeadStatus]map[followupModel.ActionType]leadModel.LeadStatus{
	leadModel.LeadStatusAddedBySales: {},
	leadModel.LeadStatusAllocated: {
		followupModel.ActionFollowUp:             leadModel.LeadStatusFollowUp,
		followupModel.ActionConfirmedAdvancePaid: leadModel.LeadStatusConfirmed,
		followupModel.ActionDead:                 leadModel.LeadStatusDead,
	},
	leadModel.LeadStatusHot: {
		followupModel.ActionFollowUp:             leadModel.LeadStatusFollowUp,
		followupModel.ActionConfirmedAdvancePaid: leadModel.LeadStatusConfirmed,
		followupModel.ActionDead:                 leadModel.LeadStatusDead,
	},
	leadModel.LeadStatusFollowUp: {
		followupModel.ActionItinerarySent:        leadModel.LeadStatusFollowUp,
		followupModel.ActionItineraryUpdated:     leadModel.LeadStatusFollowUp,
		followupModel.ActionFollowUp:             leadModel.LeadStatusFollowUp,
		followupModel.ActionConfirmedAdvancePaid: leadModel.LeadStatusConfirmed,
		followupModel.ActionDead:                 leadModel.LeadStatusDead,
	},
	leadModel.LeadStatusConfirmed:             {},
	leadModel.LeadStatusAllocatedToOperations: nil,
	leadModel.LeadStatusDead:                  nil,
}

// NextStatus resolves the outbound edge for an action from the given status.
// Annotation actions loop on any status that still accepts ledger actions.
func NextStatus(current leadModel.LeadStatus, action followupModel.ActionType) (leadModel.LeadStatus, bool) {
	edges, known := transitions[current]
	if !known || edges == nil {
		return "", false
	}
	if action.IsAnnotation() {
		if current == leadModel.LeadStatusAddedBySales {
			return "", false
		}
		return current, true
	}
	next, ok := edges[action]
	return next, ok
}

// ReminderScheduler derives and persists a travel reminder for a confirmed
// lead, and cancels pending reminders when the lead leaves the pipeline.
type ReminderScheduler interface {
	Schedule(l *leadModel.Lead, reminderTime string) (*reminderModel.ReminderRecord, error)
	CancelForLead(leadID uint) error
}

// Notifier emits a user-facing alert. Fire-and-forget: implementations log
// their own failures and never propagate them into the engine.
type Notifier interface {
	Notify(userID uint, title, message string, leadID uint)
}

// Engine is the single authority for lead status transitions. Screens and
// controllers are thin callers: every mutation of a lead goes through here.
type Engine struct {
	store     Store
	reminders ReminderScheduler
	notifier  Notifier
}

func NewEngine(store Store, reminders ReminderScheduler, notifier Notifier) *Engine {
	return &Engine{
		store:     store,
		reminders: reminders,
		notifier:  notifier,
	}
}

// ActionRequest is the validated input to ApplyAction. Which fields are
// required depends on the action type, see validateAction.
type ActionRequest struct {
	ActionType followupModel.ActionType
	Note       string

	NextFollowUpDate *time.Time
	NextFollowUpTime string

	ItineraryID   string
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	TransactionID string
	TravelDate    *time.Time
	ReminderTime  string

	DeadReason string
}

// CreateLeadRequest carries the attributes of a new lead.
type CreateLeadRequest struct {
	LeadType       leadModel.LeadType
	ClientName     string
	ContactNumber  string
	NoOfPax        int
	Place          string
	TravelDate     *time.Time
	TravelMonth    *string
	ExpectedBudget decimal.Decimal
	Remark         string
	AssignedToID   uint
}

// CreateLead registers a new lead. Admin actors assign it to a sales person
// and it enters the pipeline as allocated (or hot for hot leads); sales
// actors adding a bare contact own it themselves in added_by_sales.
func (e *Engine) CreateLead(actor *userModel.User, req CreateLeadRequest) (*leadModel.Lead, error) {
	if req.ClientName == "" {
		return nil, &ValidationError{Field: "client_name", Reason: "client name is required"}
	}
	if req.ContactNumber == "" {
		return nil, &ValidationError{Field: "contact_number", Reason: "contact number is required"}
	}
	if req.TravelDate != nil && req.TravelMonth != nil && *req.TravelMonth != "" {
		return nil, &ValidationError{Field: "travel_date", Reason: "travel_date and travel_month are mutually exclusive"}
	}

	leadType := req.LeadType
	if leadType == "" {
		leadType = leadModel.LeadTypeNormal
	}
	if !leadType.IsValid() {
		return nil, &ValidationError{Field: "lead_type", Reason: fmt.Sprintf("unknown lead type %q", req.LeadType)}
	}

	l := &leadModel.Lead{
		Uuid:           uuid.New().String(),
		LeadType:       leadType,
		ClientName:     req.ClientName,
		ContactNumber:  req.ContactNumber,
		NoOfPax:        req.NoOfPax,
		Place:          req.Place,
		TravelDate:     req.TravelDate,
		TravelMonth:    req.TravelMonth,
		ExpectedBudget: req.ExpectedBudget,
		Remark:         req.Remark,
		CreatedBy:      actor.Uuid,
	}
	if l.NoOfPax <= 0 {
		l.NoOfPax = 1
	}

	if actor.Role == constants.RoleAdmin {
		// Admin assignment goes straight into the active pipeline
		if req.AssignedToID == 0 {
			return nil, &ValidationError{Field: "assigned_to_id", Reason: "admin-assigned leads need a sales person"}
		}
		l.AssignedToID = req.AssignedToID
		l.AssignedByID = &actor.ID
		l.Status = leadModel.LeadStatusAllocated
		if leadType == leadModel.LeadTypeHot {
			l.Status = leadModel.LeadStatusHot
		}
		if !l.HasTravelWindow() {
			return nil, &ValidationError{Field: "travel_date", Reason: "exactly one of travel_date or travel_month must be set"}
		}
	} else {
		// Self-added bare contact: may lack a travel window until qualified
		l.AssignedToID = actor.ID
		l.Status = leadModel.LeadStatusAddedBySales
	}

	if err := e.store.CreateLead(l); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	if actor.Role == constants.RoleAdmin && e.notifier != nil {
		e.notifier.Notify(l.AssignedToID, "New lead assigned",
			fmt.Sprintf("Lead %s (%s) has been assigned to you", l.ClientName, l.Place), l.ID)
	}

	logger.Success(fmt.Sprintf("Lead created with ID: %d, status: %s", l.ID, l.Status))
	return l, nil
}

// ApplyAction validates a proposed action against the lead's current status,
// and atomically appends the ledger entry and applies the resulting
// transition. Reminder scheduling and notifications happen after commit and
// never roll back the transition.
func (e *Engine) ApplyAction(actor *userModel.User, leadID uint, req ActionRequest) (*leadModel.Lead, error) {
	if err := validateAction(req); err != nil {
		return nil, err
	}

	l, err := e.store.GetLead(leadID)
	if err != nil {
		return nil, err
	}

	next, ok := NextStatus(l.Status, req.ActionType)
	if !ok {
		return nil, &InvalidTransitionError{LeadID: l.ID, From: l.Status, Action: req.ActionType.String()}
	}

	if req.ActionType == followupModel.ActionConfirmedAdvancePaid {
		if req.TravelDate == nil && l.TravelDate == nil {
			return nil, &ValidationError{Field: "travel_date", Reason: "a travel date is required to confirm a lead"}
		}
	}

	entry := buildEntry(actor, l.ID, req)

	err = e.store.Transact(func(tx Store) error {
		if err := tx.AppendEntry(entry); err != nil {
			return err
		}
		l.Status = next
		l.UpdatedBy = actor.Uuid
		if req.ActionType == followupModel.ActionConfirmedAdvancePaid && req.TravelDate != nil {
			l.TravelDate = req.TravelDate
			l.TravelMonth = nil
		}
		return tx.SaveLead(l)
	})
	if err != nil {
		return nil, fmt.Errorf("apply %s to lead %d: %w", req.ActionType, leadID, err)
	}

	e.afterCommit(l, req)

	return l, nil
}

// Qualify moves a self-added bare contact into the active pipeline, choosing
// allocated or hot from the lead type. The travel window invariant is
// enforced here, at the boundary where the lead leaves added_by_sales.
func (e *Engine) Qualify(actor *userModel.User, leadID uint, leadType leadModel.LeadType) (*leadModel.Lead, error) {
	if !leadType.IsValid() {
		return nil, &ValidationError{Field: "lead_type", Reason: fmt.Sprintf("unknown lead type %q", leadType)}
	}

	l, err := e.store.GetLead(leadID)
	if err != nil {
		return nil, err
	}

	if l.Status != leadModel.LeadStatusAddedBySales {
		return nil, &InvalidTransitionError{LeadID: l.ID, From: l.Status, Action: "qualify"}
	}
	if !l.HasTravelWindow() {
		return nil, &ValidationError{Field: "travel_date", Reason: "exactly one of travel_date or travel_month must be set"}
	}

	l.LeadType = leadType
	l.Status = leadModel.LeadStatusAllocated
	if leadType == leadModel.LeadTypeHot {
		l.Status = leadModel.LeadStatusHot
	}
	if actor.Role == constants.RoleAdmin && l.AssignedByID == nil {
		l.AssignedByID = &actor.ID
	}
	l.UpdatedBy = actor.Uuid

	if err := e.store.SaveLead(l); err != nil {
		return nil, fmt.Errorf("qualify lead %d: %w", leadID, err)
	}

	if e.notifier != nil && actor.ID != l.AssignedToID {
		e.notifier.Notify(l.AssignedToID, "Lead qualified",
			fmt.Sprintf("Lead %s is now %s", l.ClientName, l.Status), l.ID)
	}

	return l, nil
}

// AllocateToOperations hands a confirmed lead over to the operations team.
// Terminal for the sales workflow.
func (e *Engine) AllocateToOperations(actor *userModel.User, leadID uint) (*leadModel.Lead, error) {
	l, err := e.store.GetLead(leadID)
	if err != nil {
		return nil, err
	}

	if l.Status != leadModel.LeadStatusConfirmed {
		return nil, &InvalidTransitionError{LeadID: l.ID, From: l.Status, Action: "operations_allocation"}
	}

	l.Status = leadModel.LeadStatusAllocatedToOperations
	l.UpdatedBy = actor.Uuid

	if err := e.store.SaveLead(l); err != nil {
		return nil, fmt.Errorf("allocate lead %d to operations: %w", leadID, err)
	}

	if e.notifier != nil {
		e.notifier.Notify(l.AssignedToID, "Lead handed to operations",
			fmt.Sprintf("Lead %s has been allocated to operations", l.ClientName), l.ID)
	}

	return l, nil
}

// afterCommit runs the best-effort side effects of a committed transition.
// Failures here are logged and reported to no one else: the transition stands.
func (e *Engine) afterCommit(l *leadModel.Lead, req ActionRequest) {
	switch req.ActionType {
	case followupModel.ActionConfirmedAdvancePaid:
		if e.reminders != nil {
			if _, err := e.reminders.Schedule(l, req.ReminderTime); err != nil {
				logger.Error(fmt.Sprintf("Failed to schedule reminder for lead %d", l.ID), err)
			}
		}
		if e.notifier != nil {
			e.notifier.Notify(l.AssignedToID, "Lead confirmed",
				fmt.Sprintf("Advance received for %s, travel on %s", l.ClientName, l.TravelDate.Format("2006-01-02")), l.ID)
		}
	case followupModel.ActionDead:
		if e.reminders != nil {
			if err := e.reminders.CancelForLead(l.ID); err != nil {
				logger.Error(fmt.Sprintf("Failed to cancel reminders for lead %d", l.ID), err)
			}
		}
		if e.notifier != nil {
			e.notifier.Notify(l.AssignedToID, "Lead closed",
				fmt.Sprintf("Lead %s has been marked dead", l.ClientName), l.ID)
		}
	}
}

// validateAction checks payload completeness per action type, before any
// persistence happens.
func validateAction(req ActionRequest) error {
	if !req.ActionType.IsValid() {
		return &ValidationError{Field: "action_type", Reason: fmt.Sprintf("unknown action type %q", req.ActionType)}
	}

	switch {
	case req.ActionType.IsFollowUpClass():
		if req.NextFollowUpDate == nil {
			return &ValidationError{Field: "next_follow_up_date", Reason: "a next follow-up date is required"}
		}
		if req.NextFollowUpTime == "" {
			return &ValidationError{Field: "next_follow_up_time", Reason: "a next follow-up time is required"}
		}
	case req.ActionType == followupModel.ActionConfirmedAdvancePaid:
		if req.ItineraryID == "" {
			return &ValidationError{Field: "itinerary_id", Reason: "itinerary id is required"}
		}
		if req.TransactionID == "" {
			return &ValidationError{Field: "transaction_id", Reason: "transaction id is required"}
		}
		if !req.TotalAmount.IsPositive() {
			return &ValidationError{Field: "total_amount", Reason: "total amount must be positive"}
		}
		if req.AdvanceAmount.IsNegative() {
			return &ValidationError{Field: "advance_amount", Reason: "advance amount cannot be negative"}
		}
		if req.AdvanceAmount.GreaterThan(req.TotalAmount) {
			return &ValidationError{Field: "advance_amount", Reason: "advance amount cannot exceed total amount"}
		}
	case req.ActionType == followupModel.ActionDead:
		if req.DeadReason == "" {
			return &ValidationError{Field: "dead_reason", Reason: "a reason is required to mark a lead dead"}
		}
	}

	return nil
}

// buildEntry materialises the ledger row for a validated action. due_amount
// is computed here, once, and never recomputed afterwards.
func buildEntry(actor *userModel.User, leadID uint, req ActionRequest) *followupModel.FollowUpEntry {
	entry := &followupModel.FollowUpEntry{
		LeadID:     leadID,
		ActionType: req.ActionType,
		ActorID:    actor.ID,
		Note:       req.Note,
		CreatedAt:  time.Now(),
	}

	switch {
	case req.ActionType.IsFollowUpClass():
		entry.NextFollowUpDate = req.NextFollowUpDate
		nextTime := req.NextFollowUpTime
		entry.NextFollowUpTime = &nextTime
	case req.ActionType == followupModel.ActionConfirmedAdvancePaid:
		itinerary := req.ItineraryID
		txID := req.TransactionID
		total := req.TotalAmount
		advance := req.AdvanceAmount
		due := total.Sub(advance)

		entry.ItineraryID = &itinerary
		entry.TransactionID = &txID
		entry.TotalAmount = &total
		entry.AdvanceAmount = &advance
		entry.DueAmount = &due
	case req.ActionType == followupModel.ActionDead:
		reason := req.DeadReason
		entry.DeadReason = &reason
	}

	return entry
}
