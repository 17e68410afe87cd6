package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/bassclub/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const rebuildConcurrency = 8

type rebuildService struct {
	eventRepo  ports.EventRepository
	seasonRepo ports.SeasonRepository
	results    ports.ResultService
	standings  ports.StandingsService
}

func NewRebuildService(eventRepo ports.EventRepository, seasonRepo ports.SeasonRepository, results ports.ResultService, standings ports.StandingsService) ports.RebuildService {
	return &rebuildService{
		eventRepo:  eventRepo,
		seasonRepo: seasonRepo,
		results:    results,
		standings:  standings,
	}
}

// RebuildAll recomputes every finalized event and then every season. Events
// and seasons are processed concurrently; the same key is never processed
// twice at once.
func (s *rebuildService) RebuildAll(ctx context.Context) error {
	events, err := s.eventRepo.ListFinalized(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch finalized events: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for _, event := range events {
		id := event.ID
		g.Go(func() error {
			if _, err := s.results.RecomputeEvent(gctx, id); err != nil {
				return fmt.Errorf("failed to rebuild event %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch seasons: %w", err)
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for _, season := range seasons {
		id := season.ID
		g.Go(func() error {
			if _, err := s.standings.RecomputeSeason(gctx, id); err != nil {
				return fmt.Errorf("failed to rebuild season %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("projections rebuilt", "events", len(events), "seasons", len(seasons))
	return nil
}
