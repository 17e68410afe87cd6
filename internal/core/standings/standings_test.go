package standings

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

func result(eventID, anglerID uuid.UUID, points int, weight string) domain.EventResult {
	w := decimal.RequireFromString(weight)
	return domain.EventResult{
		EventID:       eventID,
		AnglerID:      anglerID,
		Weight:        w,
		NetWeight:     w,
		FishCount:     5,
		BigBassWeight: decimal.Zero,
		Points:        points,
	}
}

func events(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func entryFor(entries []domain.SeasonStandingEntry, anglerID uuid.UUID) domain.SeasonStandingEntry {
	for _, e := range entries {
		if e.AnglerID == anglerID {
			return e
		}
	}
	return domain.SeasonStandingEntry{}
}

func TestAggregateSumsPointsAndRanks(t *testing.T) {
	ev := events(2)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	results := []domain.EventResult{
		result(ev[0], alice, 100, "12"),
		result(ev[0], bob, 99, "10"),
		result(ev[0], carol, 98, "9"),
		result(ev[1], alice, 98, "7"),
		result(ev[1], bob, 100, "11"),
	}

	entries, err := Aggregate(results, domain.SeasonConfig{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, bob, entries[0].AnglerID)
	assert.Equal(t, 199, entries[0].Points)
	assert.Equal(t, 1, entries[0].Rank)
	assert.True(t, decimal.RequireFromString("21").Equal(entries[0].TotalWeight))

	assert.Equal(t, alice, entries[1].AnglerID)
	assert.Equal(t, 198, entries[1].Points)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 2, entries[1].EventsFished)

	assert.Equal(t, carol, entries[2].AnglerID)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, 1, entries[2].EventsFished)
}

func TestAggregateTiesShareRank(t *testing.T) {
	ev := events(1)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	entries, err := Aggregate([]domain.EventResult{
		result(ev[0], a, 100, "10"),
		result(ev[0], b, 100, "10"),
		result(ev[0], c, 98, "8"),
	}, domain.SeasonConfig{})
	require.NoError(t, err)

	assert.Equal(t, 1, entryFor(entries, a).Rank)
	assert.Equal(t, 1, entryFor(entries, b).Rank)
	assert.Equal(t, 3, entryFor(entries, c).Rank)
}

func TestAggregateDropLowest(t *testing.T) {
	ev := events(4)
	regular, newcomer := uuid.New(), uuid.New()

	results := []domain.EventResult{
		result(ev[0], regular, 100, "10"),
		result(ev[1], regular, 60, "4"),
		result(ev[2], regular, 90, "8"),
		result(ev[3], regular, 80, "7"),
		result(ev[3], newcomer, 100, "12"),
	}

	entries, err := Aggregate(results, domain.SeasonConfig{DropLowest: 1})
	require.NoError(t, err)

	r := entryFor(entries, regular)
	assert.Equal(t, 270, r.Points)
	assert.Equal(t, []uuid.UUID{ev[1]}, r.DroppedEvents)
	assert.Equal(t, 4, r.EventsFished)

	// Fishing K events or fewer drops nothing.
	n := entryFor(entries, newcomer)
	assert.Equal(t, 100, n.Points)
	assert.Empty(t, n.DroppedEvents)
}

func TestAggregateDropLowestTieIsDeterministic(t *testing.T) {
	ev := events(3)
	angler := uuid.New()

	results := []domain.EventResult{
		result(ev[0], angler, 70, "5"),
		result(ev[1], angler, 70, "6"),
		result(ev[2], angler, 95, "9"),
	}

	first, err := Aggregate(results, domain.SeasonConfig{DropLowest: 1})
	require.NoError(t, err)

	reversed := []domain.EventResult{results[2], results[1], results[0]}
	second, err := Aggregate(reversed, domain.SeasonConfig{DropLowest: 1})
	require.NoError(t, err)

	assert.Equal(t, 165, first[0].Points)
	assert.Equal(t, first[0].DroppedEvents, second[0].DroppedEvents)

	want := ev[0]
	if idLess(ev[1], ev[0]) {
		want = ev[1]
	}
	assert.Equal(t, []uuid.UUID{want}, first[0].DroppedEvents)
}

func TestAggregateQualification(t *testing.T) {
	ev := events(3)
	steady, casual := uuid.New(), uuid.New()

	results := []domain.EventResult{
		result(ev[0], steady, 90, "8"),
		result(ev[1], steady, 90, "8"),
		result(ev[2], steady, 90, "8"),
		result(ev[0], casual, 100, "12"),
	}

	entries, err := Aggregate(results, domain.SeasonConfig{MinEventsToQualify: 3})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, steady, entries[0].AnglerID)
	assert.True(t, entries[0].Qualified)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, casual, entries[1].AnglerID)
	assert.False(t, entries[1].Qualified)
	assert.Equal(t, 0, entries[1].Rank)
}

func TestAggregateUnqualifiedLeaderDoesNotTakeARank(t *testing.T) {
	ev := events(2)
	first, second, leader := uuid.New(), uuid.New(), uuid.New()

	results := []domain.EventResult{
		result(ev[0], leader, 100, "15"),
		result(ev[0], first, 45, "6"),
		result(ev[1], first, 45, "6"),
		result(ev[0], second, 30, "5"),
		result(ev[1], second, 30, "5"),
	}

	entries, err := Aggregate(results, domain.SeasonConfig{MinEventsToQualify: 2})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, first, entries[0].AnglerID)
	assert.Equal(t, 90, entries[0].Points)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, second, entries[1].AnglerID)
	assert.Equal(t, 2, entries[1].Rank)

	assert.Equal(t, leader, entries[2].AnglerID)
	assert.Equal(t, 100, entries[2].Points)
	assert.False(t, entries[2].Qualified)
	assert.Equal(t, 0, entries[2].Rank)
}

func TestAggregateMissedEventDeduction(t *testing.T) {
	ev := events(3)
	present, absent := uuid.New(), uuid.New()

	results := []domain.EventResult{
		result(ev[0], present, 60, "5"),
		result(ev[1], present, 60, "5"),
		result(ev[2], present, 60, "5"),
		result(ev[0], absent, 15, "1"),
	}

	entries, err := Aggregate(results, domain.SeasonConfig{MissedEventDeduction: 10})
	require.NoError(t, err)

	assert.Equal(t, 180, entryFor(entries, present).Points)
	assert.Equal(t, 0, entryFor(entries, absent).Points)
}

func TestAggregateCountsDisqualifiedAsFished(t *testing.T) {
	ev := events(2)
	angler := uuid.New()

	dq := result(ev[1], angler, 0, "0")
	dq.Disqualified = true

	entries, err := Aggregate([]domain.EventResult{result(ev[0], angler, 100, "10"), dq}, domain.SeasonConfig{MinEventsToQualify: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, entries[0].EventsFished)
	assert.True(t, entries[0].Qualified)
	assert.Equal(t, 100, entries[0].Points)
}

func TestAggregateIsIdempotentAndOrderIndependent(t *testing.T) {
	ev := events(4)
	anglers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	var results []domain.EventResult
	for i, e := range ev {
		for j, a := range anglers {
			if (i+j)%3 == 0 {
				continue
			}
			results = append(results, result(e, a, 100-(i+j)%4, "6.5"))
		}
	}
	cfg := domain.SeasonConfig{DropLowest: 1, MinEventsToQualify: 2, MissedEventDeduction: 5}

	want, err := Aggregate(results, cfg)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.EventResult(nil), results...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := Aggregate(shuffled, cfg)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for k := range want {
			assert.Equal(t, want[k].AnglerID, got[k].AnglerID)
			assert.Equal(t, want[k].Points, got[k].Points)
			assert.Equal(t, want[k].Rank, got[k].Rank)
			assert.Equal(t, want[k].DroppedEvents, got[k].DroppedEvents)
		}
	}
}

func TestAggregateValidation(t *testing.T) {
	ev := events(1)
	angler := uuid.New()

	_, err := Aggregate([]domain.EventResult{result(ev[0], angler, 10, "1"), result(ev[0], angler, 20, "2")}, domain.SeasonConfig{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Aggregate([]domain.EventResult{result(ev[0], angler, -1, "1")}, domain.SeasonConfig{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Aggregate(nil, domain.SeasonConfig{DropLowest: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAggregateEmpty(t *testing.T) {
	entries, err := Aggregate(nil, domain.SeasonConfig{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
