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

type anglerService struct {
	repo  ports.AnglerRepository
	clock ports.Clock
}

func NewAnglerService(repo ports.AnglerRepository, clock ports.Clock) ports.AnglerService {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &anglerService{
		repo:  repo,
		clock: clock,
	}
}

func (s *anglerService) Register(ctx context.Context, input ports.RegisterAnglerInput) (*domain.Angler, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &domain.ValidationError{Entity: "angler", Rule: "name is required"}
	}

	joinedAt := input.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = s.clock.Now()
	}

	angler := &domain.Angler{
		ID:       uuid.New(),
		Name:     name,
		Email:    strings.TrimSpace(input.Email),
		Active:   true,
		JoinedAt: joinedAt,
	}
	if err := s.repo.Create(ctx, angler); err != nil {
		return nil, fmt.Errorf("failed to register angler: %w", err)
	}

	slog.Info("angler registered", "angler_id", angler.ID)
	return angler, nil
}

func (s *anglerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Angler, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *anglerService) List(ctx context.Context) ([]*domain.Angler, error) {
	return s.repo.List(ctx)
}

func (s *anglerService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// Leave ends the membership now. Poll eligibility snapshots taken earlier
// are not affected.
func (s *anglerService) Leave(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetLeftAt(ctx, id, s.clock.Now()); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}
