package lifecycle

import (
	"errors"

	"gorm.io/gorm"

	followupModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
)

// Store is the persistence boundary of the lifecycle engine. Every write
// belonging to one transition runs inside Transact so lead status and ledger
// can never diverge: both are applied or neither is.
type Store interface {
	GetLead(id uint) (*leadModel.Lead, error)
	CreateLead(l *leadModel.Lead) error
	SaveLead(l *leadModel.Lead) error
	AppendEntry(e *followupModel.FollowUpEntry) error
	HistoryFor(leadID uint) ([]followupModel.FollowUpEntry, error)
	Transact(fn func(Store) error) error
}

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetLead(id uint) (*leadModel.Lead, error) {
	var l leadModel.Lead
	if err := s.db.Preload("AssignedTo").First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *GormStore) CreateLead(l *leadModel.Lead) error {
	return s.db.Create(l).Error
}

func (s *GormStore) SaveLead(l *leadModel.Lead) error {
	return s.db.Save(l).Error
}

// AppendEntry inserts a new ledger row. There is deliberately no update or
// delete counterpart: the ledger is append-only.
func (s *GormStore) AppendEntry(e *followupModel.FollowUpEntry) error {
	return s.db.Create(e).Error
}

func (s *GormStore) HistoryFor(leadID uint) ([]followupModel.FollowUpEntry, error) {
	var entries []followupModel.FollowUpEntry
	err := s.db.Where("lead_id = ?", leadID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// Transact runs fn against a store bound to one database transaction.
func (s *GormStore) Transact(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
