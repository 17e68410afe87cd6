package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Season, error)
	List(ctx context.Context) ([]*domain.Season, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.Event, error)
	ListFinalized(ctx context.Context) ([]*domain.Event, error)
	// UpdateStatus moves the event from one status to another and fails with
	// a ValidationError when the stored status is not from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) error
}

// CatchRepository persists catch records. Every write bumps the event's
// catch version in the same transaction.
type CatchRepository interface {
	// Save inserts a record for an in-progress event. A second record for the
	// same (event, angler) fails with a ValidationError.
	Save(ctx context.Context, record *domain.CatchRecord) error
	// ListByEvent returns the records together with the catch version they
	// were read at.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.CatchRecord, int64, error)
	// Correct replaces a finalized event's record and stores the audit row.
	Correct(ctx context.Context, correction *domain.CatchCorrection) error
	ListCorrections(ctx context.Context, eventID uuid.UUID) ([]domain.CatchCorrection, error)
}

type CreateSeasonInput struct {
	Name     string
	StartsOn time.Time
	EndsOn   time.Time
}

type CreateEventInput struct {
	SeasonID uuid.UUID
	Lake     string
	Date     time.Time
}

type EventService interface {
	CreateSeason(ctx context.Context, input CreateSeasonInput) (*domain.Season, error)
	GetSeason(ctx context.Context, id uuid.UUID) (*domain.Season, error)
	ListSeasons(ctx context.Context) ([]*domain.Season, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListEvents(ctx context.Context, seasonID uuid.UUID) ([]*domain.Event, error)
	StartEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	FinalizeEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	CancelEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
}

type RecordCatchInput struct {
	EventID       uuid.UUID
	AnglerID      uuid.UUID
	Weight        decimal.Decimal
	FishCount     int
	BigBass       bool
	BigBassWeight decimal.Decimal
	Disqualified  bool
	Penalty       decimal.Decimal
}

type CorrectCatchInput struct {
	RecordCatchInput
	Reason      string
	CorrectedBy uuid.UUID
}

type CatchService interface {
	RecordCatch(ctx context.Context, input RecordCatchInput) (*domain.CatchRecord, error)
	CorrectCatch(ctx context.Context, input CorrectCatchInput) (*domain.CatchCorrection, error)
	ListCatches(ctx context.Context, eventID uuid.UUID) ([]domain.CatchRecord, error)
	ListCorrections(ctx context.Context, eventID uuid.UUID) ([]domain.CatchCorrection, error)
}
