package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type PollRepository struct {
	db *DB
}

func NewPollRepository(db *DB) *PollRepository {
	return &PollRepository{db: db}
}

var _ ports.PollRepository = (*PollRepository)(nil)

func (r *PollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(p), nil
}

func (r *PollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	return r.page(limit, offset, ""), nil
}

func (r *PollRepository) Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error) {
	return r.page(limit, offset, query), nil
}

// page orders polls by vote count, then newest first. Offsets outside the
// list yield an empty page.
func (r *PollRepository) page(limit, offset int, query string) []*domain.Poll {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	query = strings.ToLower(query)
	var polls []*domain.Poll
	for _, p := range r.db.polls {
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		polls = append(polls, clonePoll(p))
	}
	sort.Slice(polls, func(i, j int) bool {
		vi, vj := len(r.db.votes[polls[i].ID]), len(r.db.votes[polls[j].ID])
		if vi != vj {
			return vi > vj
		}
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})

	if offset < 0 || offset >= len(polls) {
		return nil
	}
	polls = polls[offset:]
	if limit >= 0 && limit < len(polls) {
		polls = polls[:limit]
	}
	return polls
}

func (r *PollRepository) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	if p.ClosedAt != nil {
		return &domain.PollClosedError{PollID: id, At: at}
	}
	p.ClosedAt = &at
	return nil
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Options = append([]domain.PollOption(nil), p.Options...)
	c.EligibleAnglers = append([]uuid.UUID(nil), p.EligibleAnglers...)
	if p.ClosedAt != nil {
		closedAt := *p.ClosedAt
		c.ClosedAt = &closedAt
	}
	return &c
}
