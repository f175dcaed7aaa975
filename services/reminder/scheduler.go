package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	reminderModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
)

const (
	// DefaultReminderTime is used when the sales actor picked no time.
	DefaultReminderTime = "09:00"

	// Reminders fire a fixed seven calendar days before travel.
	reminderOffsetDays = 7
)

// Calendar registers reminders with an external calendar. Implementations
// must absorb unavailability and return nil instead of failing: the database
// row is the reminder's source of truth, the calendar entry a convenience.
type Calendar interface {
	CreateReminder(title, description string, startAt time.Time) *string
	DeleteReminder(eventRef string) bool
}

// Store persists reminder records.
type Store interface {
	Create(rec *reminderModel.ReminderRecord) error
	PendingForLead(leadID uint) ([]reminderModel.ReminderRecord, error)
	MarkCancelled(id uint) error
}

// GormStore is the PostgreSQL-backed reminder store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(rec *reminderModel.ReminderRecord) error {
	return s.db.Create(rec).Error
}

func (s *GormStore) PendingForLead(leadID uint) ([]reminderModel.ReminderRecord, error) {
	var records []reminderModel.ReminderRecord
	err := s.db.Where("lead_id = ? AND status = ?", leadID, reminderModel.ReminderStatusPending).
		Find(&records).Error
	return records, err
}

func (s *GormStore) MarkCancelled(id uint) error {
	return s.db.Model(&reminderModel.ReminderRecord{}).
		Where("id = ?", id).
		Update("status", reminderModel.ReminderStatusCancelled).Error
}

// Scheduler derives a single future reminder per confirmed lead.
type Scheduler struct {
	store    Store
	calendar Calendar
}

func NewScheduler(store Store, calendar Calendar) *Scheduler {
	return &Scheduler{
		store:    store,
		calendar: calendar,
	}
}

// ReminderInstant computes the reminder day (travel date minus seven calendar
// days, truncated to day start) and the full instant at the given HH:MM.
func ReminderInstant(travelDate time.Time, reminderTime string) (time.Time, time.Time, error) {
	parsed, err := time.Parse("15:04", reminderTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid reminder time %q: %w", reminderTime, err)
	}

	day := now.New(travelDate).BeginningOfDay().AddDate(0, 0, -reminderOffsetDays)
	instant := day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)

	return day, instant, nil
}

// Schedule registers a reminder for a confirmed lead's travel date. The
// record is persisted even when the external calendar is unavailable; in
// that case CalendarEventID stays nil.
func (s *Scheduler) Schedule(l *leadModel.Lead, reminderTime string) (*reminderModel.ReminderRecord, error) {
	if l.TravelDate == nil {
		return nil, errors.New("lead has no travel date")
	}

	if reminderTime == "" {
		reminderTime = DefaultReminderTime
	}

	reminderDate, startAt, err := ReminderInstant(*l.TravelDate, reminderTime)
	if err != nil {
		return nil, err
	}

	var eventRef *string
	if s.calendar != nil {
		title := fmt.Sprintf("Upcoming travel: %s", l.ClientName)
		description := fmt.Sprintf("%s travels to %s on %s", l.ClientName, l.Place, l.TravelDate.Format("2006-01-02"))
		eventRef = s.calendar.CreateReminder(title, description, startAt)
		if eventRef == nil {
			logger.Warning(fmt.Sprintf("Calendar registration failed for lead %d, reminder persisted without event", l.ID))
		}
	}

	rec := &reminderModel.ReminderRecord{
		LeadID:          l.ID,
		SalesPersonID:   l.AssignedToID,
		TravelDate:      *l.TravelDate,
		ReminderDate:    reminderDate,
		ReminderTime:    reminderTime,
		CalendarEventID: eventRef,
		Status:          reminderModel.ReminderStatusPending,
	}

	if err := s.store.Create(rec); err != nil {
		return nil, fmt.Errorf("persist reminder for lead %d: %w", l.ID, err)
	}

	logger.Success(fmt.Sprintf("Reminder scheduled for lead %d on %s %s", l.ID, reminderDate.Format("2006-01-02"), reminderTime))
	return rec, nil
}

// CancelForLead cancels all pending reminders of a lead and best-effort
// removes their calendar events.
func (s *Scheduler) CancelForLead(leadID uint) error {
	pending, err := s.store.PendingForLead(leadID)
	if err != nil {
		return fmt.Errorf("load pending reminders for lead %d: %w", leadID, err)
	}

	for _, rec := range pending {
		if rec.CalendarEventID != nil && s.calendar != nil {
			if !s.calendar.DeleteReminder(*rec.CalendarEventID) {
				logger.Warning(fmt.Sprintf("Could not delete calendar event %s for reminder %d", *rec.CalendarEventID, rec.ID))
			}
		}
		if err := s.store.MarkCancelled(rec.ID); err != nil {
			return fmt.Errorf("cancel reminder %d: %w", rec.ID, err)
		}
	}

	return nil
}
