package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
	"github.com/vncsmyrnk/bassclub/internal/core/scoring"
)

type resultService struct {
	eventRepo  ports.EventRepository
	catchRepo  ports.CatchRepository
	resultRepo ports.EventResultRepository
	cfg        domain.ScoringConfig
	maxRetries int
	locks      *keyedMutex
}

func NewResultService(eventRepo ports.EventRepository, catchRepo ports.CatchRepository, resultRepo ports.EventResultRepository, cfg domain.ScoringConfig, maxRetries int) ports.ResultService {
	return &resultService{
		eventRepo:  eventRepo,
		catchRepo:  catchRepo,
		resultRepo: resultRepo,
		cfg:        cfg,
		maxRetries: maxRetries,
		locks:      newKeyedMutex(),
	}
}

// RecomputeEvent rescores the event from its catch records and replaces the
// stored results. Recomputations of one event never overlap; a write that
// loses against a concurrent catch change is retried from the start.
func (s *resultService) RecomputeEvent(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error) {
	unlock := s.locks.Lock(eventID)
	defer unlock()

	var results []domain.EventResult
	attempt := 0
	err := retryOnConflict(ctx, s.maxRetries, func() error {
		attempt++

		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}

		records, version, err := s.catchRepo.ListByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to load catch records: %w", err)
		}

		results, err = scoring.ScoreEvent(*event, records, s.cfg)
		if err != nil {
			return err
		}

		return s.resultRepo.Replace(ctx, eventID, version, results)
	})
	if err != nil {
		slog.Warn("event recompute failed", "event_id", eventID, "attempts", attempt, "error", err)
		return nil, err
	}

	slog.Info("event results recomputed", "event_id", eventID, "anglers", len(results), "attempts", attempt)
	return results, nil
}

func (s *resultService) GetEventResults(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByEvent(ctx, eventID)
}
