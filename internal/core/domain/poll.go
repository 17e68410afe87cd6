package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	PollOpen   PollStatus = "open"
	PollClosed PollStatus = "closed"
)

// Poll is a time-boxed question such as where the club fishes next. Voting
// is accepted in [OpensAt, ClosesAt) unless ClosedAt was set earlier.
// EligibleAnglers is the membership snapshot taken for OpensAt when the poll
// was created and never changes afterwards.
type Poll struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Options         []PollOption    `json:"options"`
	Eligibility     EligibilityRule `json:"eligibility"`
	EligibleAnglers []uuid.UUID     `json:"-"`
	AllowVoteChange bool            `json:"allow_vote_change"`
	OpensAt         time.Time       `json:"opens_at"`
	ClosesAt        time.Time       `json:"closes_at"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// AcceptsVotesAt reports whether now falls inside the voting window.
func (p *Poll) AcceptsVotesAt(now time.Time) bool {
	if p.ClosedAt != nil && !now.Before(*p.ClosedAt) {
		return false
	}
	return !now.Before(p.OpensAt) && now.Before(p.ClosesAt)
}

// StatusAt is closed once the window ended or the poll was closed
// explicitly. A poll whose window has not started yet reports open.
func (p *Poll) StatusAt(now time.Time) PollStatus {
	if p.ClosedAt != nil || !now.Before(p.ClosesAt) {
		return PollClosed
	}
	return PollOpen
}

func (p *Poll) HasOption(id uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func (p *Poll) IsEligible(anglerID uuid.UUID) bool {
	for _, id := range p.EligibleAnglers {
		if id == anglerID {
			return true
		}
	}
	return false
}
