package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	OptionID  uuid.UUID `json:"option_id"`
	AnglerID  uuid.UUID `json:"angler_id"`
	CreatedAt time.Time `json:"created_at"`
}

type OptionCount struct {
	OptionID uuid.UUID `json:"option_id"`
	Text     string    `json:"text"`
	Votes    int64     `json:"votes"`
}

// Tally counts votes per option. Leaders holds every option sharing the
// highest count; picking one of several leaders is left to the caller.
type Tally struct {
	PollID     uuid.UUID     `json:"poll_id"`
	Status     PollStatus    `json:"status"`
	Counts     []OptionCount `json:"counts"`
	TotalVotes int64         `json:"total_votes"`
	Leaders    []uuid.UUID   `json:"leaders"`
}

// Tied reports whether more than one option shares the lead.
func (t Tally) Tied() bool {
	return len(t.Leaders) > 1
}
