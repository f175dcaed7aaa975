package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	reminderModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
)

type memStore struct {
	records    []reminderModel.ReminderRecord
	nextID     uint
	failCreate bool
}

func newTestStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) Create(rec *reminderModel.ReminderRecord) error {
	if m.failCreate {
		return errors.New("injected create failure")
	}
	rec.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *rec)
	return nil
}

func (m *memStore) PendingForLead(leadID uint) ([]reminderModel.ReminderRecord, error) {
	var out []reminderModel.ReminderRecord
	for _, rec := range m.records {
		if rec.LeadID == leadID && rec.Status == reminderModel.ReminderStatusPending {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) MarkCancelled(id uint) error {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Status = reminderModel.ReminderStatusCancelled
			return nil
		}
	}
	return errors.New("record not found")
}

type fakeCalendar struct {
	unavailable bool
	created     []time.Time
	deleted     []string
}

func (f *fakeCalendar) CreateReminder(title, description string, startAt time.Time) *string {
	if f.unavailable {
		return nil
	}
	f.created = append(f.created, startAt)
	ref := "evt-123"
	return &ref
}

func (f *fakeCalendar) DeleteReminder(eventRef string) bool {
	f.deleted = append(f.deleted, eventRef)
	return !f.unavailable
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func testLead(t *testing.T, travel string) *leadModel.Lead {
	d := mustDate(t, travel)
	return &leadModel.Lead{
		ID:            7,
		ClientName:    "Rahim Uddin",
		Place:         "Cox's Bazar",
		TravelDate:    &d,
		AssignedToID:  2,
		ContactNumber: "+8801712345678",
	}
}

func TestReminderInstant(t *testing.T) {
	cases := []struct {
		travel  string
		time    string
		wantDay string
	}{
		{"2026-06-15", "09:00", "2026-06-08"},
		// Crosses a month and a year boundary
		{"2026-01-03", "09:00", "2025-12-27"},
		{"2026-03-05", "14:30", "2026-02-26"},
	}

	for _, tc := range cases {
		day, instant, err := ReminderInstant(mustDate(t, tc.travel), tc.time)
		require.NoError(t, err)
		assert.Equal(t, tc.wantDay, day.Format("2006-01-02"), "travel %s", tc.travel)
		assert.Equal(t, tc.wantDay+" "+tc.time, instant.Format("2006-01-02 15:04"))
	}
}

func TestReminderInstantRejectsBadTime(t *testing.T) {
	_, _, err := ReminderInstant(mustDate(t, "2026-06-15"), "9 o'clock")
	assert.Error(t, err)
}

func TestScheduleDefaultsTime(t *testing.T) {
	store := newTestStore()
	cal := &fakeCalendar{}
	s := NewScheduler(store, cal)

	rec, err := s.Schedule(testLead(t, "2026-06-15"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultReminderTime, rec.ReminderTime)
	assert.Equal(t, "2026-06-08", rec.ReminderDate.Format("2006-01-02"))
	assert.Equal(t, reminderModel.ReminderStatusPending, rec.Status)
	assert.Equal(t, uint(2), rec.SalesPersonID)
	require.NotNil(t, rec.CalendarEventID)
	assert.Equal(t, "evt-123", *rec.CalendarEventID)

	require.Len(t, cal.created, 1)
	assert.Equal(t, "2026-06-08 09:00", cal.created[0].Format("2006-01-02 15:04"))
}

func TestSchedulePersistsWithoutCalendar(t *testing.T) {
	store := newTestStore()
	cal := &fakeCalendar{unavailable: true}
	s := NewScheduler(store, cal)

	rec, err := s.Schedule(testLead(t, "2026-06-15"), "10:15")
	require.NoError(t, err, "calendar unavailability must not block the reminder")
	assert.Nil(t, rec.CalendarEventID)
	assert.Equal(t, "10:15", rec.ReminderTime)
	require.Len(t, store.records, 1)
}

func TestScheduleRequiresTravelDate(t *testing.T) {
	s := NewScheduler(newTestStore(), &fakeCalendar{})

	l := testLead(t, "2026-06-15")
	l.TravelDate = nil
	_, err := s.Schedule(l, "")
	assert.Error(t, err)
}

func TestSchedulePersistFailure(t *testing.T) {
	store := newTestStore()
	store.failCreate = true
	s := NewScheduler(store, &fakeCalendar{})

	_, err := s.Schedule(testLead(t, "2026-06-15"), "")
	assert.Error(t, err)
}

func TestCancelForLead(t *testing.T) {
	store := newTestStore()
	cal := &fakeCalendar{}
	s := NewScheduler(store, cal)

	rec, err := s.Schedule(testLead(t, "2026-06-15"), "")
	require.NoError(t, err)

	require.NoError(t, s.CancelForLead(rec.LeadID))

	assert.Equal(t, reminderModel.ReminderStatusCancelled, store.records[0].Status)
	require.Len(t, cal.deleted, 1)
	assert.Equal(t, "evt-123", cal.deleted[0])

	// Cancelling again is a no-op: nothing pending remains
	require.NoError(t, s.CancelForLead(rec.LeadID))
	assert.Len(t, cal.deleted, 1)
}
