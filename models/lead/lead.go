package lead

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
)

// Lead represents a prospective client inquiry tracked through the sales pipeline.
// Leads are never physically deleted; dead leads are retained for audit.
type Lead struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid string `gorm:"type:varchar(255);not null;unique" json:"uuid"`

	LeadType       LeadType        `gorm:"type:varchar(20);not null;default:'normal'" json:"lead_type"`
	ClientName     string          `gorm:"type:varchar(255);not null" json:"client_name"`
	ContactNumber  string          `gorm:"type:varchar(20);not null" json:"contact_number"`
	NoOfPax        int             `gorm:"type:int;default:1" json:"no_of_pax"`
	Place          string          `gorm:"type:varchar(255)" json:"place"`
	TravelDate     *time.Time      `json:"travel_date,omitempty"`
	TravelMonth    *string         `gorm:"type:varchar(20)" json:"travel_month,omitempty"`
	ExpectedBudget decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"expected_budget"`
	Remark         string          `gorm:"type:text" json:"remark"`

	// Ownership: assigned_by is nil for leads the sales person added themselves
	AssignedToID uint       `gorm:"not null;index" json:"assigned_to_id"`
	AssignedTo   user.User  `gorm:"foreignKey:AssignedToID" json:"assigned_to"`
	AssignedByID *uint      `gorm:"index" json:"assigned_by_id,omitempty"`
	AssignedBy   *user.User `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`

	Status LeadStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasTravelWindow reports whether exactly one of travel date / travel month is
// set. The invariant is checked at transition boundaries, not at insert time:
// a bare contact in added_by_sales may have neither.
func (l *Lead) HasTravelWindow() bool {
	hasDate := l.TravelDate != nil
	hasMonth := l.TravelMonth != nil && *l.TravelMonth != ""
	return hasDate != hasMonth
}
