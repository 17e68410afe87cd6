package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
	"github.com/vncsmyrnk/bassclub/internal/core/voting"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	clock    ports.Clock
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, clock ports.Clock) ports.VoteService {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		clock:    clock,
	}
}

// Vote records the angler's first vote on a poll. A second vote fails with
// a DuplicateVoteError even when both arrive at the same time.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (uuid.UUID, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return uuid.Nil, err
	}

	now := s.clock.Now()
	if err := voting.CheckBallot(poll, input.AnglerID, input.OptionID, now); err != nil {
		return uuid.Nil, err
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    input.PollID,
		OptionID:  input.OptionID,
		AnglerID:  input.AnglerID,
		CreatedAt: now,
	}
	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		return uuid.Nil, err
	}

	slog.Info("vote cast", "poll_id", vote.PollID, "vote_id", vote.ID)
	return vote.ID, nil
}

// ChangeVote replaces the angler's vote when the poll allows it.
func (s *voteService) ChangeVote(ctx context.Context, input ports.VoteInput) error {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return err
	}
	if !poll.AllowVoteChange {
		return domain.ErrVoteChangeDenied
	}

	now := s.clock.Now()
	if err := voting.CheckBallot(poll, input.AnglerID, input.OptionID, now); err != nil {
		return err
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    input.PollID,
		OptionID:  input.OptionID,
		AnglerID:  input.AnglerID,
		CreatedAt: now,
	}
	return s.voteRepo.ReplaceVote(ctx, vote)
}

func (s *voteService) Unvote(ctx context.Context, pollID, anglerID uuid.UUID) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.AllowVoteChange {
		return domain.ErrVoteChangeDenied
	}
	if now := s.clock.Now(); !poll.AcceptsVotesAt(now) {
		return &domain.PollClosedError{PollID: pollID, At: now}
	}

	return s.voteRepo.DeleteVote(ctx, pollID, anglerID)
}

func (s *voteService) GetMyVote(ctx context.Context, pollID, anglerID uuid.UUID) (*domain.Vote, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.voteRepo.GetVote(ctx, pollID, anglerID)
}

func (s *voteService) Tally(ctx context.Context, pollID uuid.UUID) (*domain.Tally, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	tally := voting.Tally(poll, votes, s.clock.Now())
	return &tally, nil
}
