package scoring

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

func finalizedEvent() domain.Event {
	return domain.Event{ID: uuid.New(), Status: domain.EventFinalized}
}

func catchRecord(event domain.Event, weight string, fish int) domain.CatchRecord {
	return domain.CatchRecord{
		ID:            uuid.New(),
		EventID:       event.ID,
		AnglerID:      uuid.New(),
		Weight:        decimal.RequireFromString(weight),
		FishCount:     fish,
		BigBassWeight: decimal.Zero,
		Penalty:       decimal.Zero,
	}
}

func byAngler(results []domain.EventResult) map[uuid.UUID]domain.EventResult {
	m := make(map[uuid.UUID]domain.EventResult, len(results))
	for _, r := range results {
		m[r.AnglerID] = r
	}
	return m
}

func TestScoreEventTiesShareRankAndPoints(t *testing.T) {
	event := finalizedEvent()
	a := catchRecord(event, "10.5", 5)
	b := catchRecord(event, "10.5", 5)
	c := catchRecord(event, "8.0", 5)

	results, err := ScoreEvent(event, []domain.CatchRecord{a, b, c}, domain.DefaultScoringConfig())
	require.NoError(t, err)
	require.Len(t, results, 3)

	got := byAngler(results)
	assert.Equal(t, 1, got[a.AnglerID].Rank)
	assert.Equal(t, 100, got[a.AnglerID].Points)
	assert.Equal(t, 1, got[b.AnglerID].Rank)
	assert.Equal(t, 100, got[b.AnglerID].Points)
	assert.Equal(t, 3, got[c.AnglerID].Rank)
	assert.Equal(t, 98, got[c.AnglerID].Points)
	assert.Equal(t, c.AnglerID, results[2].AnglerID)
}

func TestScoreEventTieBreakers(t *testing.T) {
	event := finalizedEvent()
	moreFish := catchRecord(event, "12", 5)
	fewerFish := catchRecord(event, "12", 4)
	bigger := catchRecord(event, "12", 3)
	bigger.BigBass = true
	bigger.BigBassWeight = decimal.RequireFromString("6.2")

	results, err := ScoreEvent(event, []domain.CatchRecord{fewerFish, moreFish, bigger}, domain.DefaultScoringConfig())
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{bigger.AnglerID, moreFish.AnglerID, fewerFish.AnglerID},
		[]uuid.UUID{results[0].AnglerID, results[1].AnglerID, results[2].AnglerID})
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Rank, results[1].Rank, results[2].Rank})
}

func TestScoreEventPenaltyAndFloor(t *testing.T) {
	event := finalizedEvent()
	var records []domain.CatchRecord
	for i := 0; i < 60; i++ {
		records = append(records, catchRecord(event, decimal.NewFromInt(int64(100-i)).String(), 5))
	}
	penalized := catchRecord(event, "3.0", 2)
	penalized.Penalty = decimal.RequireFromString("4.5")
	records = append(records, penalized)

	results, err := ScoreEvent(event, records, domain.DefaultScoringConfig())
	require.NoError(t, err)

	got := byAngler(results)
	assert.True(t, got[penalized.AnglerID].NetWeight.IsZero())
	assert.Equal(t, 61, got[penalized.AnglerID].Rank)
	assert.Equal(t, 50, got[penalized.AnglerID].Points)
	assert.Equal(t, 51, results[49].Points)
	assert.Equal(t, 50, results[50].Points)
}

func TestScoreEventDisqualified(t *testing.T) {
	event := finalizedEvent()
	winner := catchRecord(event, "9.1", 5)
	dq := catchRecord(event, "15.0", 5)
	dq.Disqualified = true
	dq.BigBass = true
	dq.BigBassWeight = decimal.RequireFromString("5")

	t.Run("listed after ranked anglers", func(t *testing.T) {
		cfg := domain.DefaultScoringConfig()
		cfg.BigBassBonus = 5

		results, err := ScoreEvent(event, []domain.CatchRecord{dq, winner}, cfg)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, winner.AnglerID, results[0].AnglerID)
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, dq.AnglerID, results[1].AnglerID)
		assert.Equal(t, 0, results[1].Rank)
		assert.Equal(t, 0, results[1].Points)
		assert.Equal(t, "DQ", results[1].RankLabel())
	})

	t.Run("ranked with zero weight when configured", func(t *testing.T) {
		cfg := domain.DefaultScoringConfig()
		cfg.RankDisqualified = true

		results, err := ScoreEvent(event, []domain.CatchRecord{dq, winner}, cfg)
		require.NoError(t, err)

		got := byAngler(results)
		assert.Equal(t, 2, got[dq.AnglerID].Rank)
		assert.True(t, got[dq.AnglerID].NetWeight.IsZero())
		assert.Equal(t, 99, got[dq.AnglerID].Points)
	})
}

func TestScoreEventBlankAnglers(t *testing.T) {
	event := finalizedEvent()
	weighed := catchRecord(event, "4.2", 2)
	blank1 := catchRecord(event, "0", 0)
	blank2 := catchRecord(event, "0", 0)

	cfg := domain.DefaultScoringConfig()
	cfg.ParticipationPoints = 10

	results, err := ScoreEvent(event, []domain.CatchRecord{blank1, weighed, blank2}, cfg)
	require.NoError(t, err)

	got := byAngler(results)
	assert.Equal(t, 100, got[weighed.AnglerID].Points)
	assert.Equal(t, 2, got[blank1.AnglerID].Rank)
	assert.Equal(t, 2, got[blank2.AnglerID].Rank)
	assert.Equal(t, 10, got[blank1.AnglerID].Points)
	assert.Equal(t, 10, got[blank2.AnglerID].Points)
}

func TestScoreEventBigBassBonus(t *testing.T) {
	event := finalizedEvent()
	first := catchRecord(event, "10", 5)
	second := catchRecord(event, "9", 5)
	second.BigBass = true
	second.BigBassWeight = decimal.RequireFromString("4.4")

	cfg := domain.DefaultScoringConfig()
	cfg.BigBassBonus = 3

	results, err := ScoreEvent(event, []domain.CatchRecord{first, second}, cfg)
	require.NoError(t, err)

	got := byAngler(results)
	assert.Equal(t, 100, got[first.AnglerID].Points)
	assert.Equal(t, 102, got[second.AnglerID].Points)
}

func TestScoreEventIsOrderIndependent(t *testing.T) {
	event := finalizedEvent()
	var records []domain.CatchRecord
	for _, w := range []string{"7.25", "7.25", "11", "3.5", "0", "7.25", "11"} {
		records = append(records, catchRecord(event, w, 3))
	}
	records[4].FishCount = 0
	records[2].Disqualified = true

	want, err := ScoreEvent(event, records, domain.DefaultScoringConfig())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.CatchRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := ScoreEvent(event, shuffled, domain.DefaultScoringConfig())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestScoreEventEmpty(t *testing.T) {
	results, err := ScoreEvent(finalizedEvent(), nil, domain.DefaultScoringConfig())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreEventValidation(t *testing.T) {
	event := finalizedEvent()

	tests := []struct {
		name    string
		event   domain.Event
		records func() []domain.CatchRecord
		cfg     domain.ScoringConfig
		rule    string
	}{
		{
			name:    "event not finalized",
			event:   domain.Event{ID: event.ID, Status: domain.EventInProgress},
			records: func() []domain.CatchRecord { return nil },
			cfg:     domain.DefaultScoringConfig(),
		},
		{
			name:  "negative weight",
			event: event,
			records: func() []domain.CatchRecord {
				r := catchRecord(event, "-1", 1)
				return []domain.CatchRecord{r}
			},
			cfg: domain.DefaultScoringConfig(),
		},
		{
			name:  "negative penalty",
			event: event,
			records: func() []domain.CatchRecord {
				r := catchRecord(event, "5", 3)
				r.Penalty = decimal.RequireFromString("-0.5")
				return []domain.CatchRecord{r}
			},
			cfg:  domain.DefaultScoringConfig(),
			rule: "penalty must not be negative",
		},
		{
			name:  "negative fish count",
			event: event,
			records: func() []domain.CatchRecord {
				return []domain.CatchRecord{catchRecord(event, "5", -1)}
			},
			cfg:  domain.DefaultScoringConfig(),
			rule: "fish count must not be negative",
		},
		{
			name:  "negative big bass weight",
			event: event,
			records: func() []domain.CatchRecord {
				r := catchRecord(event, "5", 3)
				r.BigBass = true
				r.BigBassWeight = decimal.RequireFromString("-2")
				return []domain.CatchRecord{r}
			},
			cfg:  domain.DefaultScoringConfig(),
			rule: "big bass weight must not be negative",
		},
		{
			name:  "two big bass flags for one angler",
			event: event,
			records: func() []domain.CatchRecord {
				r := catchRecord(event, "5", 3)
				r.BigBass = true
				r.BigBassWeight = decimal.RequireFromString("3")
				dup := catchRecord(event, "4", 2)
				dup.AnglerID = r.AnglerID
				dup.BigBass = true
				dup.BigBassWeight = decimal.RequireFromString("2.5")
				return []domain.CatchRecord{r, dup}
			},
			cfg:  domain.DefaultScoringConfig(),
			rule: "more than one big bass flag",
		},
		{
			name:  "duplicate angler",
			event: event,
			records: func() []domain.CatchRecord {
				r := catchRecord(event, "5", 1)
				dup := catchRecord(event, "6", 1)
				dup.AnglerID = r.AnglerID
				return []domain.CatchRecord{r, dup}
			},
			cfg: domain.DefaultScoringConfig(),
		},
		{
			name:  "record from another event",
			event: event,
			records: func() []domain.CatchRecord {
				return []domain.CatchRecord{catchRecord(finalizedEvent(), "5", 1)}
			},
			cfg: domain.DefaultScoringConfig(),
		},
		{
			name:    "minimum above first place",
			event:   event,
			records: func() []domain.CatchRecord { return nil },
			cfg:     domain.ScoringConfig{FirstPlacePoints: 10, MinimumPoints: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreEvent(tt.event, tt.records(), tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			if tt.rule != "" {
				assert.Contains(t, verr.Rule, tt.rule)
			}
		})
	}
}
