package postgres

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

func TestAnglerRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAnglerRepository(db)
	asOf := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	alice := seedAngler(t, db, "Alice", true, asOf.AddDate(-1, 0, 0))
	bob := seedAngler(t, db, "Bob", false, asOf.AddDate(-1, 0, 0))
	late := seedAngler(t, db, "Carl", true, asOf.AddDate(0, 0, 1))
	gone := seedAngler(t, db, "Dora", true, asOf.AddDate(-2, 0, 0))
	require.NoError(t, repo.SetLeftAt(ctx, gone.ID, asOf.AddDate(0, -1, 0)))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.True(t, got.Active)
		assert.Nil(t, got.LeftAt)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrAnglerNotFound)
	})

	t.Run("eligible anglers follow the rule", func(t *testing.T) {
		all, err := repo.EligibleAnglers(ctx, domain.EligibilityAllMembers, asOf)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, all)

		active, err := repo.EligibleAnglers(ctx, domain.EligibilityActiveMembers, asOf)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{alice.ID}, active)

		later, err := repo.EligibleAnglers(ctx, domain.EligibilityActiveMembers, asOf.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{alice.ID, late.ID}, later)
	})

	t.Run("updates report missing anglers", func(t *testing.T) {
		require.NoError(t, repo.SetActive(ctx, bob.ID, true))
		got, err := repo.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, got.Active)

		assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), domain.ErrAnglerNotFound)
	})
}

func TestEventLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	events := NewEventRepository(db)
	catches := NewCatchRepository(db)

	season, event := seedEvent(t, db, domain.EventScheduled)
	angler := seedAngler(t, db, "Alice", true, time.Now().AddDate(-1, 0, 0))

	record := &domain.CatchRecord{
		ID:        uuid.New(),
		EventID:   event.ID,
		AnglerID:  angler.ID,
		Weight:    decimal.RequireFromString("12.1875"),
		FishCount: 5,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("catches are rejected before the event starts", func(t *testing.T) {
		assert.ErrorIs(t, catches.Save(ctx, record), domain.ErrValidation)
	})

	t.Run("status moves only from the expected state", func(t *testing.T) {
		require.NoError(t, events.UpdateStatus(ctx, event.ID, domain.EventScheduled, domain.EventInProgress))

		err := events.UpdateStatus(ctx, event.ID, domain.EventScheduled, domain.EventCancelled)
		assert.ErrorIs(t, err, domain.ErrValidation)

		err = events.UpdateStatus(ctx, uuid.New(), domain.EventScheduled, domain.EventInProgress)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)

		listed, err := events.ListBySeason(ctx, season.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, domain.EventInProgress, listed[0].Status)
	})

	t.Run("saving a catch bumps the version", func(t *testing.T) {
		require.NoError(t, catches.Save(ctx, record))

		stored, version, err := catches.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
		require.Len(t, stored, 1)
		assert.True(t, record.Weight.Equal(stored[0].Weight))
		assert.Equal(t, 5, stored[0].FishCount)
	})

	t.Run("one record per angler", func(t *testing.T) {
		dup := *record
		dup.ID = uuid.New()
		assert.ErrorIs(t, catches.Save(ctx, &dup), domain.ErrValidation)
	})

	t.Run("unknown angler", func(t *testing.T) {
		other := *record
		other.ID = uuid.New()
		other.AnglerID = uuid.New()
		assert.ErrorIs(t, catches.Save(ctx, &other), domain.ErrAnglerNotFound)
	})

	t.Run("corrections need a finalized event", func(t *testing.T) {
		after := *record
		after.Weight = decimal.RequireFromString("11.000")
		correction := &domain.CatchCorrection{
			ID: uuid.New(), EventID: event.ID, AnglerID: angler.ID,
			Before: *record, After: after, Reason: "dead fish", CorrectedBy: angler.ID, CorrectedAt: time.Now().UTC(),
		}
		assert.ErrorIs(t, catches.Correct(ctx, correction), domain.ErrValidation)

		require.NoError(t, events.UpdateStatus(ctx, event.ID, domain.EventInProgress, domain.EventFinalized))
		require.NoError(t, catches.Correct(ctx, correction))

		stored, version, err := catches.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), version)
		assert.True(t, after.Weight.Equal(stored[0].Weight))

		audit, err := catches.ListCorrections(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, audit, 1)
		assert.Equal(t, "dead fish", audit[0].Reason)
		assert.True(t, record.Weight.Equal(audit[0].Before.Weight))
		assert.True(t, after.Weight.Equal(audit[0].After.Weight))

		finalized, err := events.ListFinalized(ctx)
		require.NoError(t, err)
		require.Len(t, finalized, 1)
		assert.Equal(t, event.ID, finalized[0].ID)
	})

	t.Run("correcting a missing record", func(t *testing.T) {
		stranger := seedAngler(t, db, "Bob", true, time.Now().AddDate(-1, 0, 0))
		correction := &domain.CatchCorrection{
			ID: uuid.New(), EventID: event.ID, AnglerID: stranger.ID,
			Reason: "typo", CorrectedBy: angler.ID, CorrectedAt: time.Now().UTC(),
		}
		assert.ErrorIs(t, catches.Correct(ctx, correction), domain.ErrCatchNotFound)
	})
}

func TestProjections(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catches := NewCatchRepository(db)
	results := NewEventResultRepository(db)
	standings := NewStandingsRepository(db)

	season, event := seedEvent(t, db, domain.EventInProgress)
	alice := seedAngler(t, db, "Alice", true, time.Now().AddDate(-1, 0, 0))
	bob := seedAngler(t, db, "Bob", true, time.Now().AddDate(-1, 0, 0))

	for _, id := range []uuid.UUID{alice.ID, bob.ID} {
		require.NoError(t, catches.Save(ctx, &domain.CatchRecord{
			ID: uuid.New(), EventID: event.ID, AnglerID: id, Weight: decimal.NewFromInt(10), FishCount: 5, CreatedAt: time.Now().UTC(),
		}))
	}
	_, version, err := catches.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), version)

	scored := []domain.EventResult{
		{EventID: event.ID, AnglerID: bob.ID, Weight: decimal.RequireFromString("10.5"), NetWeight: decimal.RequireFromString("10.5"), FishCount: 5, Rank: 1, Points: 100},
		{EventID: event.ID, AnglerID: alice.ID, Weight: decimal.RequireFromString("9.0625"), NetWeight: decimal.RequireFromString("9.0625"), FishCount: 4, Rank: 2, Points: 99},
	}

	t.Run("stale event results are rejected", func(t *testing.T) {
		err := results.Replace(ctx, event.ID, version-1, scored)
		var conflict *domain.ConsistencyError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, version, conflict.Actual)

		stored, err := results.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	_, seasonVersion, err := results.ListBySeason(ctx, season.ID)
	require.NoError(t, err)

	t.Run("results keep their order", func(t *testing.T) {
		require.NoError(t, results.Replace(ctx, event.ID, version, scored))

		stored, err := results.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, bob.ID, stored[0].AnglerID)
		assert.True(t, decimal.RequireFromString("9.0625").Equal(stored[1].NetWeight))
		assert.Equal(t, 99, stored[1].Points)
	})

	t.Run("season results only include finalized events", func(t *testing.T) {
		listed, v, err := results.ListBySeason(ctx, season.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
		assert.Equal(t, seasonVersion+1, v)

		require.NoError(t, NewEventRepository(db).UpdateStatus(ctx, event.ID, domain.EventInProgress, domain.EventFinalized))
		listed, _, err = results.ListBySeason(ctx, season.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("standings round trip", func(t *testing.T) {
		err := standings.Replace(ctx, season.ID, seasonVersion, nil)
		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

		_, current, err := results.ListBySeason(ctx, season.ID)
		require.NoError(t, err)

		entries := []domain.SeasonStandingEntry{
			{AnglerID: bob.ID, Points: 100, EventsFished: 1, TotalWeight: decimal.RequireFromString("10.5"), Qualified: true, Rank: 1},
			{AnglerID: alice.ID, Points: 99, EventsFished: 1, DroppedEvents: []uuid.UUID{event.ID}, TotalWeight: decimal.RequireFromString("9.0625"), Qualified: true, Rank: 2},
		}
		require.NoError(t, standings.Replace(ctx, season.ID, current, entries))

		stored, err := standings.List(ctx, season.ID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, bob.ID, stored[0].AnglerID)
		assert.Empty(t, stored[0].DroppedEvents)
		assert.Equal(t, []uuid.UUID{event.ID}, stored[1].DroppedEvents)
		assert.True(t, entries[1].TotalWeight.Equal(stored[1].TotalWeight))

		assert.ErrorIs(t, standings.Replace(ctx, uuid.New(), 0, nil), domain.ErrSeasonNotFound)
	})
}

func seedPoll(t *testing.T, db *sql.DB, title string, eligible ...uuid.UUID) *domain.Poll {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	poll := &domain.Poll{
		ID:              uuid.New(),
		Title:           title,
		Eligibility:     domain.EligibilityAllMembers,
		EligibleAnglers: eligible,
		OpensAt:         now.Add(-time.Hour),
		ClosesAt:        now.Add(24 * time.Hour),
		CreatedAt:       now,
	}
	for i, text := range []string{"Lake Fork", "Sam Rayburn", "Toledo Bend"} {
		poll.Options = append(poll.Options, domain.PollOption{ID: uuid.New(), PollID: poll.ID, Text: text, Position: i, CreatedAt: now})
	}
	require.NoError(t, NewPollRepository(db).Save(context.Background(), poll))
	return poll
}

func TestPollAndVoteRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)

	anglers := []uuid.UUID{uuid.New(), uuid.New()}
	poll := seedPoll(t, db, "Next tournament lake", anglers...)
	quiet := seedPoll(t, db, "Club banquet venue")

	t.Run("get returns options in order and the snapshot", func(t *testing.T) {
		got, err := polls.GetByID(ctx, poll.ID)
		require.NoError(t, err)
		require.Len(t, got.Options, 3)
		assert.Equal(t, "Lake Fork", got.Options[0].Text)
		assert.Equal(t, "Toledo Bend", got.Options[2].Text)
		assert.ElementsMatch(t, anglers, got.EligibleAnglers)
		assert.True(t, poll.OpensAt.Equal(got.OpensAt))

		_, err = polls.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrPollNotFound)
	})

	vote := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[1].ID, AnglerID: anglers[0], CreatedAt: time.Now().UTC()}

	t.Run("one vote per angler", func(t *testing.T) {
		require.NoError(t, votes.SaveVote(ctx, vote))

		again := *vote
		again.ID = uuid.New()
		assert.ErrorIs(t, votes.SaveVote(ctx, &again), domain.ErrAlreadyVoted)
	})

	t.Run("options must belong to the poll", func(t *testing.T) {
		foreign := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: quiet.Options[0].ID, AnglerID: anglers[1], CreatedAt: time.Now().UTC()}
		assert.ErrorIs(t, votes.SaveVote(ctx, foreign), domain.ErrInvalidOption)
	})

	t.Run("replace and delete", func(t *testing.T) {
		changed := *vote
		changed.ID = uuid.New()
		changed.OptionID = poll.Options[2].ID
		require.NoError(t, votes.ReplaceVote(ctx, &changed))

		got, err := votes.GetVote(ctx, poll.ID, anglers[0])
		require.NoError(t, err)
		assert.Equal(t, poll.Options[2].ID, got.OptionID)

		require.NoError(t, votes.DeleteVote(ctx, poll.ID, anglers[0]))
		assert.ErrorIs(t, votes.DeleteVote(ctx, poll.ID, anglers[0]), domain.ErrDidNotVote)
		_, err = votes.GetVote(ctx, poll.ID, anglers[0])
		assert.ErrorIs(t, err, domain.ErrDidNotVote)
		assert.ErrorIs(t, votes.ReplaceVote(ctx, &changed), domain.ErrDidNotVote)
	})

	t.Run("concurrent first votes", func(t *testing.T) {
		voter := uuid.New()
		var wg sync.WaitGroup
		var accepted, duplicates atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := votes.SaveVote(ctx, &domain.Vote{
					ID: uuid.New(), PollID: quiet.ID, OptionID: quiet.Options[i%3].ID, AnglerID: voter, CreatedAt: time.Now().UTC(),
				})
				switch {
				case err == nil:
					accepted.Add(1)
				case assert.ErrorIs(t, err, domain.ErrAlreadyVoted):
					duplicates.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), accepted.Load())
		assert.Equal(t, int32(9), duplicates.Load())

		stored, err := votes.ListByPoll(ctx, quiet.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("list orders by vote count", func(t *testing.T) {
		listed, err := polls.List(ctx, 20, 0)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, quiet.ID, listed[0].ID)

		found, err := polls.Search(ctx, 20, 0, "BANQUET")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, quiet.ID, found[0].ID)

		beyond, err := polls.List(ctx, 20, 40)
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("close is terminal", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, polls.Close(ctx, poll.ID, at))

		got, err := polls.GetByID(ctx, poll.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ClosedAt)

		assert.ErrorIs(t, polls.Close(ctx, poll.ID, at), domain.ErrPollClosed)
		assert.ErrorIs(t, polls.Close(ctx, uuid.New(), at), domain.ErrPollNotFound)
	})

	t.Run("closed polls refuse ballots", func(t *testing.T) {
		late := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[0].ID, AnglerID: anglers[1], CreatedAt: time.Now().UTC()}
		assert.ErrorIs(t, votes.SaveVote(ctx, late), domain.ErrPollClosed)
		assert.ErrorIs(t, votes.ReplaceVote(ctx, late), domain.ErrPollClosed)
		assert.ErrorIs(t, votes.DeleteVote(ctx, poll.ID, anglers[1]), domain.ErrPollClosed)

		late.PollID = uuid.New()
		assert.ErrorIs(t, votes.SaveVote(ctx, late), domain.ErrPollNotFound)
	})

	t.Run("votes racing a close", func(t *testing.T) {
		before, err := votes.ListByPoll(ctx, quiet.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var accepted, refused atomic.Int32
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := votes.SaveVote(ctx, &domain.Vote{
					ID: uuid.New(), PollID: quiet.ID, OptionID: quiet.Options[i%3].ID, AnglerID: uuid.New(), CreatedAt: time.Now().UTC(),
				})
				switch {
				case err == nil:
					accepted.Add(1)
				case assert.ErrorIs(t, err, domain.ErrPollClosed):
					refused.Add(1)
				}
			}(i)
		}
		require.NoError(t, polls.Close(ctx, quiet.ID, time.Now().UTC()))
		wg.Wait()

		after, err := votes.ListByPoll(ctx, quiet.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+int(accepted.Load()))
		assert.Equal(t, int32(20), accepted.Load()+refused.Load())

		err = votes.SaveVote(ctx, &domain.Vote{ID: uuid.New(), PollID: quiet.ID, OptionID: quiet.Options[0].ID, AnglerID: uuid.New(), CreatedAt: time.Now().UTC()})
		assert.ErrorIs(t, err, domain.ErrPollClosed)
	})
}
