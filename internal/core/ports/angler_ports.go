package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type AnglerRepository interface {
	Create(ctx context.Context, angler *domain.Angler) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Angler, error)
	List(ctx context.Context) ([]*domain.Angler, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetLeftAt(ctx context.Context, id uuid.UUID, leftAt time.Time) error
}

// MembershipDirectory answers who satisfied an eligibility rule at a given
// time. Polls store its answer once, at creation.
type MembershipDirectory interface {
	EligibleAnglers(ctx context.Context, rule domain.EligibilityRule, asOf time.Time) ([]uuid.UUID, error)
}

type RegisterAnglerInput struct {
	Name     string
	Email    string
	JoinedAt time.Time
}

type AnglerService interface {
	Register(ctx context.Context, input RegisterAnglerInput) (*domain.Angler, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Angler, error)
	List(ctx context.Context) ([]*domain.Angler, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Leave(ctx context.Context, id uuid.UUID) error
}
