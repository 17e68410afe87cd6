package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error)
	// Close sets closed_at once. Closing a closed poll returns a
	// PollClosedError.
	Close(ctx context.Context, id uuid.UUID, at time.Time) error
}

type CreatePollInput struct {
	Title           string
	Description     string
	Options         []string
	Eligibility     domain.EligibilityRule
	AllowVoteChange bool
	OpensAt         time.Time
	ClosesAt        time.Time
}

type ListPollsInput struct {
	Page  int
	Query string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
	ClosePoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
}
