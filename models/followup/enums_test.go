package followup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestActionTypeValidity(t *testing.T) {
	for _, action := range GetAllActionTypes() {
		assert.True(t, action.IsValid(), action)
	}
	assert.False(t, ActionType("ghosted").IsValid())
	assert.False(t, ActionType("").IsValid())
}

func TestActionTypeClasses(t *testing.T) {
	assert.True(t, ActionItinerarySent.IsFollowUpClass())
	assert.True(t, ActionItineraryUpdated.IsFollowUpClass())
	assert.True(t, ActionFollowUp.IsFollowUpClass())
	assert.False(t, ActionConfirmedAdvancePaid.IsFollowUpClass())
	assert.False(t, ActionDead.IsFollowUpClass())

	assert.True(t, ActionAlmostConfirmed.IsAnnotation())
	assert.False(t, ActionFollowUp.IsAnnotation())
}

func TestHasFinancials(t *testing.T) {
	total := decimal.NewFromInt(1000)
	advance := decimal.NewFromInt(300)
	due := decimal.NewFromInt(700)

	entry := FollowUpEntry{}
	assert.False(t, entry.HasFinancials())

	entry.TotalAmount = &total
	assert.False(t, entry.HasFinancials(), "partial amounts do not count")

	entry.AdvanceAmount = &advance
	entry.DueAmount = &due
	assert.True(t, entry.HasFinancials())
}
