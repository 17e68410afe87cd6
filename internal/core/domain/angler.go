package domain

import (
	"time"

	"github.com/google/uuid"
)

// Angler is a club member. Other entities reference anglers by ID only.
type Angler struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email,omitempty"`
	Active   bool       `json:"active"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// MemberAt reports whether the angler was a club member at t.
func (a Angler) MemberAt(t time.Time) bool {
	if a.JoinedAt.After(t) {
		return false
	}
	return a.LeftAt == nil || a.LeftAt.After(t)
}

type EligibilityRule string

const (
	EligibilityAllMembers    EligibilityRule = "all-members"
	EligibilityActiveMembers EligibilityRule = "active-members"
)

func (r EligibilityRule) Valid() bool {
	return r == EligibilityAllMembers || r == EligibilityActiveMembers
}

// Admits reports whether the angler satisfies the rule as of t.
func (r EligibilityRule) Admits(a Angler, t time.Time) bool {
	if !a.MemberAt(t) {
		return false
	}
	if r == EligibilityActiveMembers {
		return a.Active
	}
	return true
}
