package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	followupModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
)

// Ledger reads the append-only follow-up history. Writes only happen inside
// the engine's transaction; there is no public append.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// HistoryFor returns all entries for a lead, newest first.
func (lg *Ledger) HistoryFor(leadID uint) ([]followupModel.FollowUpEntry, error) {
	return lg.store.HistoryFor(leadID)
}

// Financials is the latest known financial state of a lead, reconstructed
// from the most recent ledger entry bearing amounts. Each entry is a
// point-in-time snapshot; nothing is recomputed retroactively.
type Financials struct {
	EntryID    uint            `json:"entry_id"`
	Total      decimal.Decimal `json:"total_amount"`
	Advance    decimal.Decimal `json:"advance_amount"`
	Due        decimal.Decimal `json:"due_amount"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// LatestFinancials returns the most recent amount snapshot for a lead, or
// nil when no entry carries amounts yet.
func (lg *Ledger) LatestFinancials(leadID uint) (*Financials, error) {
	entries, err := lg.store.HistoryFor(leadID)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.HasFinancials() {
			return &Financials{
				EntryID:    e.ID,
				Total:      *e.TotalAmount,
				Advance:    *e.AdvanceAmount,
				Due:        *e.DueAmount,
				RecordedAt: e.CreatedAt,
			}, nil
		}
	}

	return nil, nil
}
