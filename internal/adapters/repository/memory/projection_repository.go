package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type EventResultRepository struct {
	db *DB
}

func NewEventResultRepository(db *DB) *EventResultRepository {
	return &EventResultRepository{db: db}
}

var _ ports.EventResultRepository = (*EventResultRepository)(nil)

func (r *EventResultRepository) Replace(ctx context.Context, eventID uuid.UUID, sourceVersion int64, results []domain.EventResult) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.CatchVersion != sourceVersion {
		return &domain.ConsistencyError{Entity: "event", ID: eventID, Expected: sourceVersion, Actual: e.CatchVersion}
	}

	stored := make([]domain.EventResult, len(results))
	copy(stored, results)
	r.db.results[eventID] = stored

	if row, ok := r.db.seasons[e.SeasonID]; ok {
		row.resultsVersion++
	}
	return nil
}

func (r *EventResultRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	results := make([]domain.EventResult, len(r.db.results[eventID]))
	copy(results, r.db.results[eventID])
	return results, nil
}

func (r *EventResultRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]domain.EventResult, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.seasons[seasonID]
	if !ok {
		return nil, 0, domain.ErrSeasonNotFound
	}

	var results []domain.EventResult
	for id, e := range r.db.events {
		if e.SeasonID != seasonID || e.Status != domain.EventFinalized {
			continue
		}
		results = append(results, r.db.results[id]...)
	}
	return results, row.resultsVersion, nil
}

type StandingsRepository struct {
	db *DB
}

func NewStandingsRepository(db *DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

var _ ports.StandingsRepository = (*StandingsRepository)(nil)

func (r *StandingsRepository) Replace(ctx context.Context, seasonID uuid.UUID, sourceVersion int64, entries []domain.SeasonStandingEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.seasons[seasonID]
	if !ok {
		return domain.ErrSeasonNotFound
	}
	if row.resultsVersion != sourceVersion {
		return &domain.ConsistencyError{Entity: "season", ID: seasonID, Expected: sourceVersion, Actual: row.resultsVersion}
	}

	stored := make([]domain.SeasonStandingEntry, len(entries))
	copy(stored, entries)
	r.db.standings[seasonID] = stored
	return nil
}

func (r *StandingsRepository) List(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	entries := make([]domain.SeasonStandingEntry, len(r.db.standings[seasonID]))
	copy(entries, r.db.standings[seasonID])
	return entries, nil
}
