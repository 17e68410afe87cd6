package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrSeasonNotFound   = errors.New("season not found")
	ErrAnglerNotFound   = errors.New("angler not found")
	ErrCatchNotFound    = errors.New("catch record not found")
	ErrInvalidPollID    = errors.New("invalid poll id")
	ErrInvalidOption    = errors.New("invalid option for this poll")
	ErrDidNotVote       = errors.New("angler did not vote on this poll")
	ErrVoteChangeDenied = errors.New("vote changes are not allowed on this poll")
	ErrInternal         = errors.New("internal server error")

	// Sentinels matched by the typed errors below through errors.Is.
	ErrValidation       = errors.New("validation failed")
	ErrPollClosed       = errors.New("poll is closed")
	ErrIneligibleVoter  = errors.New("angler is not eligible to vote on this poll")
	ErrAlreadyVoted     = errors.New("angler has already voted")
	ErrConcurrentUpdate = errors.New("source data changed during recomputation")
)

// ValidationError reports malformed or out-of-range input. Entity and ID
// identify the offending record, Rule names the violated constraint.
type ValidationError struct {
	Entity string
	ID     string
	Rule   string
}

func NewValidationError(entity string, id fmt.Stringer, rule string) *ValidationError {
	var s string
	if id != nil {
		s = id.String()
	}
	return &ValidationError{Entity: entity, ID: s, Rule: rule}
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Rule)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.ID, e.Rule)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type PollClosedError struct {
	PollID uuid.UUID
	At     time.Time
}

func (e *PollClosedError) Error() string {
	return fmt.Sprintf("poll %s is not accepting votes at %s", e.PollID, e.At.Format(time.RFC3339))
}

func (e *PollClosedError) Is(target error) bool { return target == ErrPollClosed }

type IneligibleVoterError struct {
	PollID   uuid.UUID
	AnglerID uuid.UUID
}

func (e *IneligibleVoterError) Error() string {
	return fmt.Sprintf("angler %s is not eligible to vote on poll %s", e.AnglerID, e.PollID)
}

func (e *IneligibleVoterError) Is(target error) bool { return target == ErrIneligibleVoter }

type DuplicateVoteError struct {
	PollID   uuid.UUID
	AnglerID uuid.UUID
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("angler %s has already voted on poll %s", e.AnglerID, e.PollID)
}

func (e *DuplicateVoteError) Is(target error) bool { return target == ErrAlreadyVoted }

// ConsistencyError is returned when a projection write finds that its source
// version moved while the projection was being computed. Callers retry the
// whole computation.
type ConsistencyError struct {
	Entity   string
	ID       uuid.UUID
	Expected int64
	Actual   int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s %s changed during recomputation (expected version %d, found %d)", e.Entity, e.ID, e.Expected, e.Actual)
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConcurrentUpdate }
