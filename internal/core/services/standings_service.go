package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
	"github.com/vncsmyrnk/bassclub/internal/core/standings"
)

type standingsService struct {
	seasonRepo    ports.SeasonRepository
	resultRepo    ports.EventResultRepository
	standingsRepo ports.StandingsRepository
	cfg           domain.SeasonConfig
	maxRetries    int
	locks         *keyedMutex
}

func NewStandingsService(seasonRepo ports.SeasonRepository, resultRepo ports.EventResultRepository, standingsRepo ports.StandingsRepository, cfg domain.SeasonConfig, maxRetries int) ports.StandingsService {
	return &standingsService{
		seasonRepo:    seasonRepo,
		resultRepo:    resultRepo,
		standingsRepo: standingsRepo,
		cfg:           cfg,
		maxRetries:    maxRetries,
		locks:         newKeyedMutex(),
	}
}

// RecomputeSeason rebuilds the season table from every stored event result
// of the season. Nothing from a previous table is reused.
func (s *standingsService) RecomputeSeason(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(seasonID)
	defer unlock()

	var entries []domain.SeasonStandingEntry
	err := retryOnConflict(ctx, s.maxRetries, func() error {
		results, version, err := s.resultRepo.ListBySeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("failed to load season results: %w", err)
		}

		entries, err = standings.Aggregate(results, s.cfg)
		if err != nil {
			return err
		}

		return s.standingsRepo.Replace(ctx, seasonID, version, entries)
	})
	if err != nil {
		slog.Warn("season recompute failed", "season_id", seasonID, "error", err)
		return nil, err
	}

	slog.Info("season standings recomputed", "season_id", seasonID, "anglers", len(entries))
	return entries, nil
}

func (s *standingsService) GetStandings(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.standingsRepo.List(ctx, seasonID)
}

// refreshProjections recomputes an event's results and then its season.
func refreshProjections(ctx context.Context, results ports.ResultService, table ports.StandingsService, event *domain.Event) error {
	if _, err := results.RecomputeEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to recompute event %s: %w", event.ID, err)
	}
	if _, err := table.RecomputeSeason(ctx, event.SeasonID); err != nil {
		return fmt.Errorf("failed to recompute season %s: %w", event.SeasonID, err)
	}
	return nil
}
