package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/constants"
	followupModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	reminderModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
	userModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

// memStore is an in-memory Store with failure injection. Transact snapshots
// state and rolls back on error, mirroring the database transaction contract.
type memStore struct {
	leads       map[uint]leadModel.Lead
	entries     []followupModel.FollowUpEntry
	nextLeadID  uint
	nextEntryID uint

	failAppend bool
	failSave   bool
}

func newMemStore() *memStore {
	return &memStore{
		leads:       make(map[uint]leadModel.Lead),
		nextLeadID:  1,
		nextEntryID: 1,
	}
}

func (m *memStore) GetLead(id uint) (*leadModel.Lead, error) {
	l, ok := m.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := l
	return &copied, nil
}

func (m *memStore) CreateLead(l *leadModel.Lead) error {
	l.ID = m.nextLeadID
	m.nextLeadID++
	m.leads[l.ID] = *l
	return nil
}

func (m *memStore) SaveLead(l *leadModel.Lead) error {
	if m.failSave {
		return errors.New("injected save failure")
	}
	if _, ok := m.leads[l.ID]; !ok {
		return ErrLeadNotFound
	}
	m.leads[l.ID] = *l
	return nil
}

func (m *memStore) AppendEntry(e *followupModel.FollowUpEntry) error {
	if m.failAppend {
		return errors.New("injected append failure")
	}
	e.ID = m.nextEntryID
	m.nextEntryID++
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStore) HistoryFor(leadID uint) ([]followupModel.FollowUpEntry, error) {
	var out []followupModel.FollowUpEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].LeadID == leadID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memStore) Transact(fn func(Store) error) error {
	snapshot := make(map[uint]leadModel.Lead, len(m.leads))
	for k, v := range m.leads {
		snapshot[k] = v
	}
	savedEntries := make([]followupModel.FollowUpEntry, len(m.entries))
	copy(savedEntries, m.entries)
	savedEntryID := m.nextEntryID

	if err := fn(m); err != nil {
		m.leads = snapshot
		m.entries = savedEntries
		m.nextEntryID = savedEntryID
		return err
	}
	return nil
}

type scheduledCall struct {
	leadID       uint
	reminderTime string
}

type fakeScheduler struct {
	scheduled []scheduledCall
	cancelled []uint
	failNext  bool
}

func (f *fakeScheduler) Schedule(l *leadModel.Lead, reminderTime string) (*reminderModel.ReminderRecord, error) {
	if f.failNext {
		return nil, errors.New("injected scheduler failure")
	}
	f.scheduled = append(f.scheduled, scheduledCall{leadID: l.ID, reminderTime: reminderTime})
	return &reminderModel.ReminderRecord{LeadID: l.ID}, nil
}

func (f *fakeScheduler) CancelForLead(leadID uint) error {
	f.cancelled = append(f.cancelled, leadID)
	return nil
}

type sentNotification struct {
	userID uint
	title  string
	leadID uint
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(userID uint, title, message string, leadID uint) {
	f.sent = append(f.sent, sentNotification{userID: userID, title: title, leadID: leadID})
}

func adminActor() *userModel.User {
	return &userModel.User{ID: 1, Uuid: "admin-uuid", Username: "admin", Role: constants.RoleAdmin}
}

func salesActor() *userModel.User {
	return &userModel.User{ID: 2, Uuid: "sales-uuid", Username: "sales", Role: constants.RoleSales}
}

func dateOf(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}

func testEngine() (*Engine, *memStore, *fakeScheduler, *fakeNotifier) {
	store := newMemStore()
	scheduler := &fakeScheduler{}
	notifier := &fakeNotifier{}
	return NewEngine(store, scheduler, notifier), store, scheduler, notifier
}

func seedLead(store *memStore, status leadModel.LeadStatus, travelDate *time.Time) uint {
	l := &leadModel.Lead{
		Uuid:          "lead-uuid",
		LeadType:      leadModel.LeadTypeNormal,
		ClientName:    "Rahim Uddin",
		ContactNumber: "+8801712345678",
		NoOfPax:       2,
		Place:         "Cox's Bazar",
		TravelDate:    travelDate,
		AssignedToID:  2,
		Status:        status,
	}
	store.CreateLead(l)
	return l.ID
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		from   leadModel.LeadStatus
		action followupModel.ActionType
		want   leadModel.LeadStatus
		ok     bool
	}{
		{leadModel.LeadStatusAllocated, followupModel.ActionFollowUp, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusAllocated, followupModel.ActionConfirmedAdvancePaid, leadModel.LeadStatusConfirmed, true},
		{leadModel.LeadStatusAllocated, followupModel.ActionDead, leadModel.LeadStatusDead, true},
		{leadModel.LeadStatusAllocated, followupModel.ActionItinerarySent, "", false},
		{leadModel.LeadStatusHot, followupModel.ActionFollowUp, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusHot, followupModel.ActionConfirmedAdvancePaid, leadModel.LeadStatusConfirmed, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionItinerarySent, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionItineraryUpdated, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionFollowUp, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionConfirmedAdvancePaid, leadModel.LeadStatusConfirmed, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionDead, leadModel.LeadStatusDead, true},
		{leadModel.LeadStatusAddedBySales, followupModel.ActionFollowUp, "", false},
		{leadModel.LeadStatusAddedBySales, followupModel.ActionAlmostConfirmed, "", false},
		{leadModel.LeadStatusConfirmed, followupModel.ActionDead, "", false},
		{leadModel.LeadStatusConfirmed, followupModel.ActionAlmostConfirmed, leadModel.LeadStatusConfirmed, true},
		{leadModel.LeadStatusFollowUp, followupModel.ActionAlmostConfirmed, leadModel.LeadStatusFollowUp, true},
		{leadModel.LeadStatusDead, followupModel.ActionFollowUp, "", false},
		{leadModel.LeadStatusDead, followupModel.ActionDead, "", false},
		{leadModel.LeadStatusDead, followupModel.ActionAlmostConfirmed, "", false},
		{leadModel.LeadStatusAllocatedToOperations, followupModel.ActionFollowUp, "", false},
	}

	for _, tc := range cases {
		got, ok := NextStatus(tc.from, tc.action)
		assert.Equal(t, tc.ok, ok, "%s + %s", tc.from, tc.action)
		if tc.ok {
			assert.Equal(t, tc.want, got, "%s + %s", tc.from, tc.action)
		}
	}
}

func TestCreateLeadAdminAssigned(t *testing.T) {
	engine, store, _, notifier := testEngine()

	l, err := engine.CreateLead(adminActor(), CreateLeadRequest{
		ClientName:     "Rahim Uddin",
		ContactNumber:  "+8801712345678",
		NoOfPax:        4,
		Place:          "Sylhet",
		TravelDate:     dateOf(t, "2026-11-20"),
		ExpectedBudget: decimal.NewFromInt(80000),
		AssignedToID:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAllocated, l.Status)
	assert.Equal(t, uint(2), l.AssignedToID)
	require.NotNil(t, l.AssignedByID)
	assert.Equal(t, uint(1), *l.AssignedByID)

	stored, err := store.GetLead(l.ID)
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAllocated, stored.Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint(2), notifier.sent[0].userID)
}

func TestCreateLeadHotEntersHot(t *testing.T) {
	engine, _, _, _ := testEngine()

	month := "2026-12"
	l, err := engine.CreateLead(adminActor(), CreateLeadRequest{
		LeadType:      leadModel.LeadTypeHot,
		ClientName:    "Karima Begum",
		ContactNumber: "+8801812345678",
		TravelMonth:   &month,
		AssignedToID:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusHot, l.Status)
}

func TestCreateLeadAdminValidation(t *testing.T) {
	engine, _, _, _ := testEngine()
	month := "2026-12"

	cases := []struct {
		name string
		req  CreateLeadRequest
	}{
		{"missing client name", CreateLeadRequest{ContactNumber: "+8801712345678", AssignedToID: 2, TravelMonth: &month}},
		{"missing contact number", CreateLeadRequest{ClientName: "X", AssignedToID: 2, TravelMonth: &month}},
		{"missing assignee", CreateLeadRequest{ClientName: "X", ContactNumber: "+8801712345678", TravelMonth: &month}},
		{"no travel window", CreateLeadRequest{ClientName: "X", ContactNumber: "+8801712345678", AssignedToID: 2}},
		{"both travel fields", CreateLeadRequest{ClientName: "X", ContactNumber: "+8801712345678", AssignedToID: 2, TravelDate: dateOf(t, "2026-11-20"), TravelMonth: &month}},
	}

	for _, tc := range cases {
		_, err := engine.CreateLead(adminActor(), tc.req)
		assert.True(t, IsValidationError(err), tc.name)
	}
}

func TestCreateLeadSalesSelfOwned(t *testing.T) {
	engine, _, _, notifier := testEngine()

	// A bare contact needs no travel window yet
	l, err := engine.CreateLead(salesActor(), CreateLeadRequest{
		ClientName:    "Walk-in contact",
		ContactNumber: "+8801912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAddedBySales, l.Status)
	assert.Equal(t, uint(2), l.AssignedToID)
	assert.Nil(t, l.AssignedByID)
	assert.Empty(t, notifier.sent)
}

func TestQualify(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAddedBySales, dateOf(t, "2026-11-20"))

	l, err := engine.Qualify(salesActor(), id, leadModel.LeadTypeNormal)
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAllocated, l.Status)
}

func TestQualifyHotType(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAddedBySales, dateOf(t, "2026-11-20"))

	l, err := engine.Qualify(salesActor(), id, leadModel.LeadTypeHot)
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusHot, l.Status)
}

func TestQualifyRequiresTravelWindow(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAddedBySales, nil)

	_, err := engine.Qualify(salesActor(), id, leadModel.LeadTypeNormal)
	assert.True(t, IsValidationError(err))

	stored, _ := store.GetLead(id)
	assert.Equal(t, leadModel.LeadStatusAddedBySales, stored.Status)
}

func TestQualifyRejectsNonBareLead(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))

	_, err := engine.Qualify(salesActor(), id, leadModel.LeadTypeNormal)
	assert.True(t, IsInvalidTransition(err))
}

func TestApplyActionFollowUp(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAllocated, dateOf(t, "2026-11-20"))

	l, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:       followupModel.ActionFollowUp,
		Note:             "Client asked for a revised quote",
		NextFollowUpDate: dateOf(t, "2026-09-10"),
		NextFollowUpTime: "16:30",
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusFollowUp, l.Status)

	history, err := store.HistoryFor(id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, followupModel.ActionFollowUp, history[0].ActionType)
	assert.Equal(t, uint(2), history[0].ActorID)
	require.NotNil(t, history[0].NextFollowUpTime)
	assert.Equal(t, "16:30", *history[0].NextFollowUpTime)
}

func TestApplyActionConfirmComputesDue(t *testing.T) {
	engine, store, scheduler, notifier := testEngine()
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))

	l, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-1042",
		TransactionID: "TXN-88421",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusConfirmed, l.Status)

	history, _ := store.HistoryFor(id)
	require.Len(t, history, 1)
	entry := history[0]
	require.True(t, entry.HasFinancials())
	assert.True(t, entry.DueAmount.Equal(decimal.NewFromInt(700)), "due = total - advance")
	assert.True(t, entry.TotalAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, entry.AdvanceAmount.Equal(decimal.NewFromInt(300)))

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, id, scheduler.scheduled[0].leadID)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Lead confirmed", notifier.sent[0].title)
}

func TestApplyActionConfirmSetsTravelDate(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAllocated, nil)
	month := "2026-12"
	l, _ := store.GetLead(id)
	l.TravelMonth = &month
	store.leads[id] = *l

	travel := dateOf(t, "2026-12-18")
	updated, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-7",
		TransactionID: "TXN-7",
		TotalAmount:   decimal.NewFromInt(500),
		AdvanceAmount: decimal.NewFromInt(500),
		TravelDate:    travel,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TravelDate)
	assert.True(t, updated.TravelDate.Equal(*travel))
	assert.Nil(t, updated.TravelMonth)
}

func TestApplyActionConfirmNeedsTravelDate(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAllocated, nil)

	_, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-7",
		TransactionID: "TXN-7",
		TotalAmount:   decimal.NewFromInt(500),
		AdvanceAmount: decimal.NewFromInt(100),
	})
	assert.True(t, IsValidationError(err))
}

func TestApplyActionDeadCancelsReminders(t *testing.T) {
	engine, store, scheduler, notifier := testEngine()
	id := seedLead(store, leadModel.LeadStatusHot, dateOf(t, "2026-11-20"))

	l, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType: followupModel.ActionDead,
		DeadReason: "Budget too high",
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusDead, l.Status)

	history, _ := store.HistoryFor(id)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].DeadReason)
	assert.Equal(t, "Budget too high", *history[0].DeadReason)

	require.Len(t, scheduler.cancelled, 1)
	assert.Equal(t, id, scheduler.cancelled[0])
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Lead closed", notifier.sent[0].title)
}

func TestDeadLeadRejectsEverything(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusDead, dateOf(t, "2026-11-20"))

	for _, action := range followupModel.GetAllActionTypes() {
		_, err := engine.ApplyAction(salesActor(), id, ActionRequest{
			ActionType:       action,
			Note:             "should never land",
			NextFollowUpDate: dateOf(t, "2026-09-10"),
			NextFollowUpTime: "10:00",
			ItineraryID:      "ITN-1",
			TransactionID:    "TXN-1",
			TotalAmount:      decimal.NewFromInt(100),
			DeadReason:       "already dead",
		})
		assert.True(t, IsInvalidTransition(err), "action %s", action)
	}

	history, _ := store.HistoryFor(id)
	assert.Empty(t, history, "rejected actions must leave no ledger trace")
}

func TestApplyActionPayloadValidation(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAllocated, dateOf(t, "2026-11-20"))

	cases := []struct {
		name string
		req  ActionRequest
	}{
		{"unknown action", ActionRequest{ActionType: "teleport"}},
		{"follow up without date", ActionRequest{ActionType: followupModel.ActionFollowUp, NextFollowUpTime: "10:00"}},
		{"follow up without time", ActionRequest{ActionType: followupModel.ActionFollowUp, NextFollowUpDate: dateOf(t, "2026-09-10")}},
		{"confirm without itinerary", ActionRequest{ActionType: followupModel.ActionConfirmedAdvancePaid, TransactionID: "TXN-1", TotalAmount: decimal.NewFromInt(100)}},
		{"confirm without transaction", ActionRequest{ActionType: followupModel.ActionConfirmedAdvancePaid, ItineraryID: "ITN-1", TotalAmount: decimal.NewFromInt(100)}},
		{"confirm zero total", ActionRequest{ActionType: followupModel.ActionConfirmedAdvancePaid, ItineraryID: "ITN-1", TransactionID: "TXN-1"}},
		{"confirm negative advance", ActionRequest{ActionType: followupModel.ActionConfirmedAdvancePaid, ItineraryID: "ITN-1", TransactionID: "TXN-1", TotalAmount: decimal.NewFromInt(100), AdvanceAmount: decimal.NewFromInt(-5)}},
		{"confirm advance above total", ActionRequest{ActionType: followupModel.ActionConfirmedAdvancePaid, ItineraryID: "ITN-1", TransactionID: "TXN-1", TotalAmount: decimal.NewFromInt(100), AdvanceAmount: decimal.NewFromInt(150)}},
		{"dead without reason", ActionRequest{ActionType: followupModel.ActionDead}},
	}

	for _, tc := range cases {
		_, err := engine.ApplyAction(salesActor(), id, tc.req)
		assert.True(t, IsValidationError(err), tc.name)
	}

	history, _ := store.HistoryFor(id)
	assert.Empty(t, history)
}

func TestAnnotationKeepsStatus(t *testing.T) {
	engine, store, _, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))

	l, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType: followupModel.ActionAlmostConfirmed,
		Note:       "Verbal yes, waiting on payment",
	})
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusFollowUp, l.Status)

	history, _ := store.HistoryFor(id)
	require.Len(t, history, 1)
	assert.Equal(t, followupModel.ActionAlmostConfirmed, history[0].ActionType)
}

func TestApplyActionUnknownLead(t *testing.T) {
	engine, _, _, _ := testEngine()

	_, err := engine.ApplyAction(salesActor(), 99, ActionRequest{
		ActionType: followupModel.ActionAlmostConfirmed,
	})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestAtomicityAppendFailure(t *testing.T) {
	engine, store, scheduler, notifier := testEngine()
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))
	store.failAppend = true

	_, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-1",
		TransactionID: "TXN-1",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
	})
	require.Error(t, err)

	stored, _ := store.GetLead(id)
	assert.Equal(t, leadModel.LeadStatusFollowUp, stored.Status, "status must not move when the ledger write fails")
	history, _ := store.HistoryFor(id)
	assert.Empty(t, history)
	assert.Empty(t, scheduler.scheduled)
	assert.Empty(t, notifier.sent)
}

func TestAtomicitySaveFailure(t *testing.T) {
	engine, store, scheduler, notifier := testEngine()
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))
	store.failSave = true

	_, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-1",
		TransactionID: "TXN-1",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
	})
	require.Error(t, err)

	stored, _ := store.GetLead(id)
	assert.Equal(t, leadModel.LeadStatusFollowUp, stored.Status)
	history, _ := store.HistoryFor(id)
	assert.Empty(t, history, "ledger entry must roll back when the status write fails")
	assert.Empty(t, scheduler.scheduled)
	assert.Empty(t, notifier.sent)
}

func TestSchedulerFailureDoesNotRollBack(t *testing.T) {
	engine, store, scheduler, _ := testEngine()
	scheduler.failNext = true
	id := seedLead(store, leadModel.LeadStatusFollowUp, dateOf(t, "2026-11-20"))

	l, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-1",
		TransactionID: "TXN-1",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
	})
	require.NoError(t, err, "reminder scheduling is best effort")
	assert.Equal(t, leadModel.LeadStatusConfirmed, l.Status)
}

func TestAllocateToOperations(t *testing.T) {
	engine, store, _, notifier := testEngine()
	id := seedLead(store, leadModel.LeadStatusConfirmed, dateOf(t, "2026-11-20"))

	l, err := engine.AllocateToOperations(salesActor(), id)
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAllocatedToOperations, l.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Lead handed to operations", notifier.sent[0].title)
}

func TestAllocateToOperationsRequiresConfirmed(t *testing.T) {
	engine, store, _, _ := testEngine()

	for _, status := range []leadModel.LeadStatus{
		leadModel.LeadStatusAddedBySales,
		leadModel.LeadStatusAllocated,
		leadModel.LeadStatusHot,
		leadModel.LeadStatusFollowUp,
		leadModel.LeadStatusDead,
		leadModel.LeadStatusAllocatedToOperations,
	} {
		id := seedLead(store, status, dateOf(t, "2026-11-20"))
		_, err := engine.AllocateToOperations(salesActor(), id)
		assert.True(t, IsInvalidTransition(err), "from %s", status)
	}
}

// Full happy path: allocated lead is followed up, confirmed with an advance,
// and handed to operations, leaving a complete ledger trail.
func TestLifecycleEndToEnd(t *testing.T) {
	engine, store, scheduler, _ := testEngine()
	id := seedLead(store, leadModel.LeadStatusAllocated, dateOf(t, "2026-11-20"))

	_, err := engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:       followupModel.ActionFollowUp,
		NextFollowUpDate: dateOf(t, "2026-09-05"),
		NextFollowUpTime: "11:00",
	})
	require.NoError(t, err)

	_, err = engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:       followupModel.ActionItinerarySent,
		NextFollowUpDate: dateOf(t, "2026-09-08"),
		NextFollowUpTime: "11:00",
	})
	require.NoError(t, err)

	_, err = engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-2201",
		TransactionID: "TXN-9944",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
		ReminderTime:  "08:30",
	})
	require.NoError(t, err)

	l, err := engine.AllocateToOperations(salesActor(), id)
	require.NoError(t, err)
	assert.Equal(t, leadModel.LeadStatusAllocatedToOperations, l.Status)

	history, _ := store.HistoryFor(id)
	require.Len(t, history, 3)
	// Newest first
	assert.Equal(t, followupModel.ActionConfirmedAdvancePaid, history[0].ActionType)
	assert.Equal(t, followupModel.ActionItinerarySent, history[1].ActionType)
	assert.Equal(t, followupModel.ActionFollowUp, history[2].ActionType)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, "08:30", scheduler.scheduled[0].reminderTime)
}

func TestLedgerLatestFinancials(t *testing.T) {
	engine, store, _, _ := testEngine()
	ledger := NewLedger(store)
	id := seedLead(store, leadModel.LeadStatusAllocated, dateOf(t, "2026-11-20"))

	fin, err := ledger.LatestFinancials(id)
	require.NoError(t, err)
	assert.Nil(t, fin, "no financials before any confirm entry")

	_, err = engine.ApplyAction(salesActor(), id, ActionRequest{
		ActionType:    followupModel.ActionConfirmedAdvancePaid,
		ItineraryID:   "ITN-1",
		TransactionID: "TXN-1",
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	fin, err = ledger.LatestFinancials(id)
	require.NoError(t, err)
	require.NotNil(t, fin)
	assert.True(t, fin.Total.Equal(decimal.NewFromInt(1000)))
	assert.True(t, fin.Advance.Equal(decimal.NewFromInt(300)))
	assert.True(t, fin.Due.Equal(decimal.NewFromInt(700)))
}
