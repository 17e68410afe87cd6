package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type SeasonRepository struct {
	db *DB
}

func NewSeasonRepository(db *DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

var _ ports.SeasonRepository = (*SeasonRepository)(nil)

func (r *SeasonRepository) Create(ctx context.Context, season *domain.Season) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.seasons[season.ID] = &seasonRow{season: *season}
	return nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Season, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.seasons[id]
	if !ok {
		return nil, domain.ErrSeasonNotFound
	}
	s := row.season
	return &s, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]*domain.Season, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	seasons := make([]*domain.Season, 0, len(r.db.seasons))
	for _, row := range r.db.seasons {
		s := row.season
		seasons = append(seasons, &s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].StartsOn.Before(seasons[j].StartsOn) })
	return seasons, nil
}

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.seasons[event.SeasonID]; !ok {
		return domain.ErrSeasonNotFound
	}
	e := *event
	r.db.events[event.ID] = &e
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	event := *e
	return &event, nil
}

func (r *EventRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.Event, error) {
	return r.list(func(e *domain.Event) bool { return e.SeasonID == seasonID }), nil
}

func (r *EventRepository) ListFinalized(ctx context.Context) ([]*domain.Event, error) {
	return r.list(func(e *domain.Event) bool { return e.Status == domain.EventFinalized }), nil
}

func (r *EventRepository) list(keep func(*domain.Event) bool) []*domain.Event {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var events []*domain.Event
	for _, e := range r.db.events {
		if keep(e) {
			event := *e
			events = append(events, &event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return idLess(events[i].ID, events[j].ID)
	})
	return events
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.Status != from {
		return domain.NewValidationError("event", id, "status changed concurrently to "+string(e.Status))
	}
	e.Status = to
	return nil
}

type CatchRepository struct {
	db *DB
}

func NewCatchRepository(db *DB) *CatchRepository {
	return &CatchRepository{db: db}
}

var _ ports.CatchRepository = (*CatchRepository)(nil)

func (r *CatchRepository) Save(ctx context.Context, record *domain.CatchRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[record.EventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.Status != domain.EventInProgress {
		return domain.NewValidationError("event", e.ID, "catches can only be entered while the event is in progress")
	}

	byAngler := r.db.catches[record.EventID]
	if byAngler == nil {
		byAngler = make(map[uuid.UUID]domain.CatchRecord)
		r.db.catches[record.EventID] = byAngler
	}
	if _, dup := byAngler[record.AnglerID]; dup {
		return domain.NewValidationError("catch record", record.ID, "angler already has a catch record for this event")
	}

	byAngler[record.AnglerID] = *record
	e.CatchVersion++
	return nil
}

func (r *CatchRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.CatchRecord, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[eventID]
	if !ok {
		return nil, 0, domain.ErrEventNotFound
	}

	records := make([]domain.CatchRecord, 0, len(r.db.catches[eventID]))
	for _, rec := range r.db.catches[eventID] {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return idLess(records[i].AnglerID, records[j].AnglerID) })
	return records, e.CatchVersion, nil
}

func (r *CatchRepository) Correct(ctx context.Context, correction *domain.CatchCorrection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.events[correction.EventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.Status != domain.EventFinalized {
		return domain.NewValidationError("event", e.ID, "corrections apply to finalized events only")
	}
	byAngler := r.db.catches[correction.EventID]
	if _, ok := byAngler[correction.AnglerID]; !ok {
		return domain.ErrCatchNotFound
	}

	byAngler[correction.AnglerID] = correction.After
	r.db.corrections[correction.EventID] = append(r.db.corrections[correction.EventID], *correction)
	e.CatchVersion++
	return nil
}

func (r *CatchRepository) ListCorrections(ctx context.Context, eventID uuid.UUID) ([]domain.CatchCorrection, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	corrections := make([]domain.CatchCorrection, len(r.db.corrections[eventID]))
	copy(corrections, r.db.corrections[eventID])
	return corrections, nil
}
