package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type VoteRepository struct {
	db *DB
}

func NewVoteRepository(db *DB) *VoteRepository {
	return &VoteRepository{db: db}
}

var _ ports.VoteRepository = (*VoteRepository)(nil)

// SaveVote checks and inserts under the DB lock, which plays the role of
// the (poll_id, angler_id) unique constraint. A poll closed after the
// caller's ballot check still refuses the vote.
func (r *VoteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.polls[vote.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	if p.ClosedAt != nil {
		return &domain.PollClosedError{PollID: vote.PollID, At: *p.ClosedAt}
	}
	if !p.HasOption(vote.OptionID) {
		return domain.ErrInvalidOption
	}

	byAngler := r.db.votes[vote.PollID]
	if byAngler == nil {
		byAngler = make(map[uuid.UUID]domain.Vote)
		r.db.votes[vote.PollID] = byAngler
	}
	if _, dup := byAngler[vote.AnglerID]; dup {
		return &domain.DuplicateVoteError{PollID: vote.PollID, AnglerID: vote.AnglerID}
	}
	byAngler[vote.AnglerID] = *vote
	return nil
}

func (r *VoteRepository) ReplaceVote(ctx context.Context, vote *domain.Vote) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.polls[vote.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	if p.ClosedAt != nil {
		return &domain.PollClosedError{PollID: vote.PollID, At: *p.ClosedAt}
	}
	if !p.HasOption(vote.OptionID) {
		return domain.ErrInvalidOption
	}
	if _, ok := r.db.votes[vote.PollID][vote.AnglerID]; !ok {
		return domain.ErrDidNotVote
	}
	r.db.votes[vote.PollID][vote.AnglerID] = *vote
	return nil
}

func (r *VoteRepository) DeleteVote(ctx context.Context, pollID, anglerID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	if p.ClosedAt != nil {
		return &domain.PollClosedError{PollID: pollID, At: *p.ClosedAt}
	}
	if _, ok := r.db.votes[pollID][anglerID]; !ok {
		return domain.ErrDidNotVote
	}
	delete(r.db.votes[pollID], anglerID)
	return nil
}

func (r *VoteRepository) GetVote(ctx context.Context, pollID, anglerID uuid.UUID) (*domain.Vote, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	v, ok := r.db.votes[pollID][anglerID]
	if !ok {
		return nil, domain.ErrDidNotVote
	}
	return &v, nil
}

func (r *VoteRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	votes := make([]domain.Vote, 0, len(r.db.votes[pollID]))
	for _, v := range r.db.votes[pollID] {
		votes = append(votes, v)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].CreatedAt.Before(votes[j].CreatedAt) })
	return votes, nil
}
