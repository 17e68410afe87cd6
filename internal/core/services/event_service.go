package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type eventService struct {
	seasonRepo ports.SeasonRepository
	eventRepo  ports.EventRepository
	results    ports.ResultService
	standings  ports.StandingsService
	clock      ports.Clock
}

func NewEventService(seasonRepo ports.SeasonRepository, eventRepo ports.EventRepository, results ports.ResultService, standings ports.StandingsService, clock ports.Clock) ports.EventService {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &eventService{
		seasonRepo: seasonRepo,
		eventRepo:  eventRepo,
		results:    results,
		standings:  standings,
		clock:      clock,
	}
}

func (s *eventService) CreateSeason(ctx context.Context, input ports.CreateSeasonInput) (*domain.Season, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &domain.ValidationError{Entity: "season", Rule: "name is required"}
	}
	if input.StartsOn.IsZero() || input.EndsOn.IsZero() {
		return nil, &domain.ValidationError{Entity: "season", Rule: "start and end dates are required"}
	}
	if !input.EndsOn.After(input.StartsOn) {
		return nil, &domain.ValidationError{Entity: "season", Rule: "season must end after it starts"}
	}

	season := &domain.Season{
		ID:       uuid.New(),
		Name:     name,
		StartsOn: input.StartsOn,
		EndsOn:   input.EndsOn,
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return season, nil
}

func (s *eventService) GetSeason(ctx context.Context, id uuid.UUID) (*domain.Season, error) {
	return s.seasonRepo.GetByID(ctx, id)
}

func (s *eventService) ListSeasons(ctx context.Context) ([]*domain.Season, error) {
	return s.seasonRepo.List(ctx)
}

func (s *eventService) CreateEvent(ctx context.Context, input ports.CreateEventInput) (*domain.Event, error) {
	lake := strings.TrimSpace(input.Lake)
	if lake == "" {
		return nil, &domain.ValidationError{Entity: "event", Rule: "lake is required"}
	}

	season, err := s.seasonRepo.GetByID(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}
	if input.Date.Before(season.StartsOn) || input.Date.After(season.EndsOn) {
		return nil, domain.NewValidationError("event", nil, "date is outside season "+season.Name)
	}

	event := &domain.Event{
		ID:        uuid.New(),
		SeasonID:  season.ID,
		Lake:      lake,
		Date:      input.Date,
		Status:    domain.EventScheduled,
		CreatedAt: s.clock.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context, seasonID uuid.UUID) ([]*domain.Event, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListBySeason(ctx, seasonID)
}

func (s *eventService) StartEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.transition(ctx, id, domain.EventInProgress)
}

// FinalizeEvent freezes the catch records and publishes results and
// standings. The event stays finalized even if the projections fail to
// refresh; the rebuild job repairs them.
func (s *eventService) FinalizeEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, err := s.transition(ctx, id, domain.EventFinalized)
	if err != nil {
		return nil, err
	}

	if err := refreshProjections(ctx, s.results, s.standings, event); err != nil {
		return event, err
	}
	return event, nil
}

func (s *eventService) CancelEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.transition(ctx, id, domain.EventCancelled)
}

func (s *eventService) transition(ctx context.Context, id uuid.UUID, to domain.EventStatus) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(to) {
		return nil, domain.NewValidationError("event", id, fmt.Sprintf("cannot move from %s to %s", event.Status, to))
	}

	if err := s.eventRepo.UpdateStatus(ctx, id, event.Status, to); err != nil {
		return nil, err
	}

	slog.Info("event status changed", "event_id", id, "from", event.Status, "to", to)
	event.Status = to
	return event, nil
}
