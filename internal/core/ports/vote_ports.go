package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// VoteRepository enforces at most one vote per (poll, angler). Writes on a
// closed poll fail with a PollClosedError even when the close lands after the
// caller's own checks.
type VoteRepository interface {
	// SaveVote fails with a DuplicateVoteError when the angler already voted.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	// ReplaceVote swaps the angler's existing vote for vote in one step and
	// fails with ErrDidNotVote when there is none.
	ReplaceVote(ctx context.Context, vote *domain.Vote) error
	DeleteVote(ctx context.Context, pollID, anglerID uuid.UUID) error
	GetVote(ctx context.Context, pollID, anglerID uuid.UUID) (*domain.Vote, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	AnglerID uuid.UUID
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (uuid.UUID, error)
	ChangeVote(ctx context.Context, input VoteInput) error
	Unvote(ctx context.Context, pollID, anglerID uuid.UUID) error
	GetMyVote(ctx context.Context, pollID, anglerID uuid.UUID) (*domain.Vote, error)
	Tally(ctx context.Context, pollID uuid.UUID) (*domain.Tally, error)
}
