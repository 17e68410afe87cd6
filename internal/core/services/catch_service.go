package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type catchService struct {
	eventRepo  ports.EventRepository
	anglerRepo ports.AnglerRepository
	catchRepo  ports.CatchRepository
	results    ports.ResultService
	standings  ports.StandingsService
	clock      ports.Clock
}

func NewCatchService(eventRepo ports.EventRepository, anglerRepo ports.AnglerRepository, catchRepo ports.CatchRepository, results ports.ResultService, standings ports.StandingsService, clock ports.Clock) ports.CatchService {
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &catchService{
		eventRepo:  eventRepo,
		anglerRepo: anglerRepo,
		catchRepo:  catchRepo,
		results:    results,
		standings:  standings,
		clock:      clock,
	}
}

// RecordCatch enters an angler's weigh-in while the event is in progress.
func (s *catchService) RecordCatch(ctx context.Context, input ports.RecordCatchInput) (*domain.CatchRecord, error) {
	if err := validateCatchInput(input); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventInProgress {
		return nil, domain.NewValidationError("event", event.ID, "catches can only be entered while the event is in progress")
	}
	if _, err := s.anglerRepo.GetByID(ctx, input.AnglerID); err != nil {
		return nil, err
	}

	record := newCatchRecord(uuid.New(), input, s.clock)
	if err := s.catchRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	slog.Info("catch recorded", "event_id", record.EventID, "angler_id", record.AnglerID, "weight", record.Weight.String())
	return record, nil
}

// CorrectCatch changes a finalized event's catch record, leaves an audit
// row behind and republishes results and standings.
func (s *catchService) CorrectCatch(ctx context.Context, input ports.CorrectCatchInput) (*domain.CatchCorrection, error) {
	if err := validateCatchInput(input.RecordCatchInput); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, &domain.ValidationError{Entity: "catch correction", Rule: "reason is required"}
	}
	if input.CorrectedBy == uuid.Nil {
		return nil, &domain.ValidationError{Entity: "catch correction", Rule: "corrected by is required"}
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventFinalized {
		return nil, domain.NewValidationError("event", event.ID, "corrections apply to finalized events only")
	}

	records, _, err := s.catchRepo.ListByEvent(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catch records: %w", err)
	}
	var before *domain.CatchRecord
	for i := range records {
		if records[i].AnglerID == input.AnglerID {
			before = &records[i]
			break
		}
	}
	if before == nil {
		return nil, domain.ErrCatchNotFound
	}

	after := newCatchRecord(before.ID, input.RecordCatchInput, s.clock)
	after.CreatedAt = before.CreatedAt

	correction := &domain.CatchCorrection{
		ID:          uuid.New(),
		EventID:     event.ID,
		AnglerID:    input.AnglerID,
		Before:      *before,
		After:       *after,
		Reason:      reason,
		CorrectedBy: input.CorrectedBy,
		CorrectedAt: s.clock.Now(),
	}
	if err := s.catchRepo.Correct(ctx, correction); err != nil {
		return nil, err
	}

	slog.Info("catch corrected", "event_id", event.ID, "angler_id", input.AnglerID, "corrected_by", input.CorrectedBy, "reason", reason)

	if err := refreshProjections(ctx, s.results, s.standings, event); err != nil {
		return correction, err
	}
	return correction, nil
}

func (s *catchService) ListCatches(ctx context.Context, eventID uuid.UUID) ([]domain.CatchRecord, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	records, _, err := s.catchRepo.ListByEvent(ctx, eventID)
	return records, err
}

func (s *catchService) ListCorrections(ctx context.Context, eventID uuid.UUID) ([]domain.CatchCorrection, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.catchRepo.ListCorrections(ctx, eventID)
}

func newCatchRecord(id uuid.UUID, input ports.RecordCatchInput, clock ports.Clock) *domain.CatchRecord {
	return &domain.CatchRecord{
		ID:            id,
		EventID:       input.EventID,
		AnglerID:      input.AnglerID,
		Weight:        input.Weight,
		FishCount:     input.FishCount,
		BigBass:       input.BigBass,
		BigBassWeight: input.BigBassWeight,
		Disqualified:  input.Disqualified,
		Penalty:       input.Penalty,
		CreatedAt:     clock.Now(),
	}
}

// weightPlaces is the decimal precision of stored weights. Four places hold
// any whole number of ounces expressed in pounds.
const weightPlaces = 4

func finerThanStored(w decimal.Decimal) bool {
	return !w.Truncate(weightPlaces).Equal(w)
}

func validateCatchInput(input ports.RecordCatchInput) error {
	switch {
	case input.EventID == uuid.Nil:
		return &domain.ValidationError{Entity: "catch record", Rule: "event id is required"}
	case input.AnglerID == uuid.Nil:
		return &domain.ValidationError{Entity: "catch record", Rule: "angler id is required"}
	case input.Weight.IsNegative():
		return &domain.ValidationError{Entity: "catch record", Rule: "weight must not be negative"}
	case input.Penalty.IsNegative():
		return &domain.ValidationError{Entity: "catch record", Rule: "penalty must not be negative"}
	case input.BigBassWeight.IsNegative():
		return &domain.ValidationError{Entity: "catch record", Rule: "big bass weight must not be negative"}
	case input.BigBassWeight.GreaterThan(input.Weight):
		return &domain.ValidationError{Entity: "catch record", Rule: "big bass weight exceeds total weight"}
	case input.FishCount < 0:
		return &domain.ValidationError{Entity: "catch record", Rule: "fish count must not be negative"}
	case finerThanStored(input.Weight), finerThanStored(input.Penalty), finerThanStored(input.BigBassWeight):
		return &domain.ValidationError{Entity: "catch record", Rule: "weights allow at most 4 decimal places"}
	}
	return nil
}
