// Package voting holds the poll rules that do not depend on storage.
package voting

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// CheckBallot validates a ballot against the poll at time now. Uniqueness of
// the angler's vote is enforced by the vote store, not here.
func CheckBallot(poll *domain.Poll, anglerID, optionID uuid.UUID, now time.Time) error {
	if !poll.AcceptsVotesAt(now) {
		return &domain.PollClosedError{PollID: poll.ID, At: now}
	}
	if !poll.IsEligible(anglerID) {
		return &domain.IneligibleVoterError{PollID: poll.ID, AnglerID: anglerID}
	}
	if !poll.HasOption(optionID) {
		return domain.NewValidationError("vote", optionID, domain.ErrInvalidOption.Error())
	}
	return nil
}

// Tally counts votes per option of poll. Votes for options the poll does not
// have are ignored. Counts keep option order for equal counts and every
// option sharing the top count is reported as a leader; with no votes there
// are no leaders.
func Tally(poll *domain.Poll, votes []domain.Vote, now time.Time) domain.Tally {
	counts := make(map[uuid.UUID]int64, len(poll.Options))
	for _, v := range votes {
		if v.PollID != poll.ID || !poll.HasOption(v.OptionID) {
			continue
		}
		counts[v.OptionID]++
	}

	options := make([]domain.PollOption, len(poll.Options))
	copy(options, poll.Options)
	sort.SliceStable(options, func(i, j int) bool { return options[i].Position < options[j].Position })

	t := domain.Tally{
		PollID:  poll.ID,
		Status:  poll.StatusAt(now),
		Counts:  make([]domain.OptionCount, 0, len(options)),
		Leaders: []uuid.UUID{},
	}
	var top int64
	for _, opt := range options {
		n := counts[opt.ID]
		t.Counts = append(t.Counts, domain.OptionCount{OptionID: opt.ID, Text: opt.Text, Votes: n})
		t.TotalVotes += n
		if n > top {
			top = n
		}
	}

	sort.SliceStable(t.Counts, func(i, j int) bool { return t.Counts[i].Votes > t.Counts[j].Votes })

	if top > 0 {
		for _, c := range t.Counts {
			if c.Votes == top {
				t.Leaders = append(t.Leaders, c.OptionID)
			}
		}
	}
	return t
}
