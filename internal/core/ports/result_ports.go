package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

// EventResultRepository stores the event_results projection.
type EventResultRepository interface {
	// Replace swaps the event's results for the given set if the event's
	// catch version still equals sourceVersion, otherwise it returns a
	// ConsistencyError and writes nothing. It bumps the season's results
	// version.
	Replace(ctx context.Context, eventID uuid.UUID, sourceVersion int64, results []domain.EventResult) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error)
	// ListBySeason returns the results of the season's finalized events and
	// the season's results version they were read at.
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]domain.EventResult, int64, error)
}

// StandingsRepository stores the season_standings projection.
type StandingsRepository interface {
	// Replace follows the same version discipline as
	// EventResultRepository.Replace against the season's results version.
	Replace(ctx context.Context, seasonID uuid.UUID, sourceVersion int64, entries []domain.SeasonStandingEntry) error
	List(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error)
}

type ResultService interface {
	RecomputeEvent(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error)
	GetEventResults(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error)
}

type StandingsService interface {
	RecomputeSeason(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error)
	GetStandings(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error)
}

type RebuildService interface {
	RebuildAll(ctx context.Context) error
}
