package domain

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventResult is derived from a CatchRecord by the scoring engine. Rank is
// zero for unranked disqualified anglers.
type EventResult struct {
	EventID       uuid.UUID       `json:"event_id"`
	AnglerID      uuid.UUID       `json:"angler_id"`
	Weight        decimal.Decimal `json:"weight"`
	Penalty       decimal.Decimal `json:"penalty"`
	NetWeight     decimal.Decimal `json:"net_weight"`
	FishCount     int             `json:"fish_count"`
	BigBass       bool            `json:"big_bass"`
	BigBassWeight decimal.Decimal `json:"big_bass_weight"`
	Disqualified  bool            `json:"disqualified"`
	Rank          int             `json:"rank"`
	Points        int             `json:"points"`
}

// RankLabel renders the rank the way result sheets print it.
func (r EventResult) RankLabel() string {
	if r.Rank == 0 && r.Disqualified {
		return "DQ"
	}
	return strconv.Itoa(r.Rank)
}

// SeasonStandingEntry is one angler's line in the Angler-of-the-Year table.
// Unqualified entries carry Rank zero.
type SeasonStandingEntry struct {
	AnglerID           uuid.UUID       `json:"angler_id"`
	Points             int             `json:"points"`
	EventsFished       int             `json:"events_fished"`
	DroppedEvents      []uuid.UUID     `json:"dropped_events,omitempty"`
	TotalWeight        decimal.Decimal `json:"total_weight"`
	TotalBigBassWeight decimal.Decimal `json:"total_big_bass_weight"`
	BigBassAwards      int             `json:"big_bass_awards"`
	Qualified          bool            `json:"qualified"`
	Rank               int             `json:"rank"`
}
