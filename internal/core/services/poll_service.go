package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

const pollsPageSize = 20

type pollService struct {
	repo      ports.PollRepository
	directory ports.MembershipDirectory
	clock     ports.Clock
}

func NewPollService(repo ports.PollRepository, directory ports.MembershipDirectory, clock ports.Clock) ports.PollService {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &pollService{
		repo:      repo,
		directory: directory,
		clock:     clock,
	}
}

// Create stores a new poll together with the anglers eligible to vote on
// it, evaluated for the poll's opening time.
func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &domain.ValidationError{Entity: "poll", Rule: "title is required"}
	}

	rule := input.Eligibility
	if rule == "" {
		rule = domain.EligibilityActiveMembers
	}
	if !rule.Valid() {
		return nil, &domain.ValidationError{Entity: "poll", Rule: "unknown eligibility rule " + string(rule)}
	}

	now := s.clock.Now()
	opensAt := input.OpensAt
	if opensAt.IsZero() {
		opensAt = now
	}
	if !input.ClosesAt.After(opensAt) {
		return nil, &domain.ValidationError{Entity: "poll", Rule: "poll must close after it opens"}
	}

	pollID := uuid.New()
	poll := &domain.Poll{
		ID:              pollID,
		Title:           title,
		Description:     input.Description,
		Eligibility:     rule,
		AllowVoteChange: input.AllowVoteChange,
		OpensAt:         opensAt,
		ClosesAt:        input.ClosesAt,
		CreatedAt:       now,
	}

	for _, optText := range input.Options {
		optText = strings.TrimSpace(optText)
		if optText == "" {
			continue
		}
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      optText,
			Position:  len(poll.Options),
			CreatedAt: now,
		})
	}
	if len(poll.Options) < 2 {
		return nil, &domain.ValidationError{Entity: "poll", Rule: "at least two valid options are required"}
	}

	eligible, err := s.directory.EligibleAnglers(ctx, rule, opensAt)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot eligible anglers: %w", err)
	}
	poll.EligibleAnglers = eligible

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	slog.Info("poll created", "poll_id", poll.ID, "eligible", len(eligible), "opens_at", opensAt, "closes_at", poll.ClosesAt)
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > math.MaxInt/pollsPageSize {
		return nil, &domain.ValidationError{Entity: "poll list", Rule: "page is out of range"}
	}
	offset := (page - 1) * pollsPageSize

	if q := strings.TrimSpace(input.Query); q != "" {
		return s.repo.Search(ctx, pollsPageSize, offset, q)
	}
	return s.repo.List(ctx, pollsPageSize, offset)
}

// ClosePoll ends voting before the scheduled closing time. Closed polls
// never reopen.
func (s *pollService) ClosePoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if poll.StatusAt(now) == domain.PollClosed {
		return nil, &domain.PollClosedError{PollID: id, At: now}
	}

	if err := s.repo.Close(ctx, id, now); err != nil {
		if errors.Is(err, domain.ErrPollClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to close poll: %w", err)
	}

	poll.ClosedAt = &now
	slog.Info("poll closed", "poll_id", id)
	return poll, nil
}
