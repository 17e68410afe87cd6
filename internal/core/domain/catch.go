package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatchRecord is one angler's weigh-in for one event. Weights are pounds.
type CatchRecord struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	AnglerID      uuid.UUID       `json:"angler_id"`
	Weight        decimal.Decimal `json:"weight"`
	FishCount     int             `json:"fish_count"`
	BigBass       bool            `json:"big_bass"`
	BigBassWeight decimal.Decimal `json:"big_bass_weight"`
	Disqualified  bool            `json:"disqualified"`
	Penalty       decimal.Decimal `json:"penalty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NetWeight is weight minus penalty, clamped at zero.
func (c CatchRecord) NetWeight() decimal.Decimal {
	net := c.Weight.Sub(c.Penalty)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// CatchCorrection is the audit row written whenever a finalized event's
// catch record is changed.
type CatchCorrection struct {
	ID          uuid.UUID   `json:"id"`
	EventID     uuid.UUID   `json:"event_id"`
	AnglerID    uuid.UUID   `json:"angler_id"`
	Before      CatchRecord `json:"before"`
	After       CatchRecord `json:"after"`
	Reason      string      `json:"reason"`
	CorrectedBy uuid.UUID   `json:"corrected_by"`
	CorrectedAt time.Time   `json:"corrected_at"`
}
