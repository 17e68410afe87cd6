package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/bassclub/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	clock *fakeClock
	db    *memory.DB

	anglerRepo *memory.AnglerRepository
	eventRepo  *memory.EventRepository
	catchRepo  *memory.CatchRepository
	resultRepo *memory.EventResultRepository

	anglers   ports.AnglerService
	events    ports.EventService
	catches   ports.CatchService
	results   ports.ResultService
	standings ports.StandingsService
	polls     ports.PollService
	votes     ports.VoteService
	rebuild   ports.RebuildService
}

func newTestEnv(t *testing.T, season domain.SeasonConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		clock: &fakeClock{now: time.Date(2026, 4, 1, 6, 0, 0, 0, time.UTC)},
		db:    memory.NewDB(),
	}
	env.anglerRepo = memory.NewAnglerRepository(env.db)
	env.eventRepo = memory.NewEventRepository(env.db)
	env.catchRepo = memory.NewCatchRepository(env.db)
	env.resultRepo = memory.NewEventResultRepository(env.db)
	seasonRepo := memory.NewSeasonRepository(env.db)
	pollRepo := memory.NewPollRepository(env.db)

	env.anglers = NewAnglerService(env.anglerRepo, env.clock)
	env.results = NewResultService(env.eventRepo, env.catchRepo, env.resultRepo, domain.DefaultScoringConfig(), DefaultMaxRetries)
	env.standings = NewStandingsService(seasonRepo, env.resultRepo, memory.NewStandingsRepository(env.db), season, DefaultMaxRetries)
	env.events = NewEventService(seasonRepo, env.eventRepo, env.results, env.standings, env.clock)
	env.catches = NewCatchService(env.eventRepo, env.anglerRepo, env.catchRepo, env.results, env.standings, env.clock)
	env.polls = NewPollService(pollRepo, env.anglerRepo, env.clock)
	env.votes = NewVoteService(pollRepo, memory.NewVoteRepository(env.db), env.clock)
	env.rebuild = NewRebuildService(env.eventRepo, seasonRepo, env.results, env.standings)
	return env
}

func (env *testEnv) angler(t *testing.T, name string) *domain.Angler {
	t.Helper()
	a, err := env.anglers.Register(context.Background(), ports.RegisterAnglerInput{
		Name:     name,
		JoinedAt: env.clock.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return a
}

func (env *testEnv) season(t *testing.T) *domain.Season {
	t.Helper()
	now := env.clock.Now()
	s, err := env.events.CreateSeason(context.Background(), ports.CreateSeasonInput{
		Name:     "2026 Trail",
		StartsOn: now.AddDate(0, -1, 0),
		EndsOn:   now.AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	return s
}

// startedEvent creates an event in the season and moves it to in-progress.
func (env *testEnv) startedEvent(t *testing.T, seasonID uuid.UUID, lake string) *domain.Event {
	t.Helper()
	ctx := context.Background()
	e, err := env.events.CreateEvent(ctx, ports.CreateEventInput{SeasonID: seasonID, Lake: lake, Date: env.clock.Now()})
	require.NoError(t, err)
	e, err = env.events.StartEvent(ctx, e.ID)
	require.NoError(t, err)
	return e
}

func (env *testEnv) weighIn(t *testing.T, eventID, anglerID uuid.UUID, weight string, fish int) {
	t.Helper()
	_, err := env.catches.RecordCatch(context.Background(), ports.RecordCatchInput{
		EventID:   eventID,
		AnglerID:  anglerID,
		Weight:    decimal.RequireFromString(weight),
		FishCount: fish,
	})
	require.NoError(t, err)
}
