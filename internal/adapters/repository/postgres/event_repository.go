package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type seasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) ports.SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *domain.Season) error {
	query := `INSERT INTO seasons (id, name, starts_on, ends_on) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, season.ID, season.Name, season.StartsOn, season.EndsOn); err != nil {
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

func (r *seasonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Season, error) {
	query := `SELECT id, name, starts_on, ends_on FROM seasons WHERE id = $1`
	var s domain.Season
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.StartsOn, &s.EndsOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return &s, nil
}

func (r *seasonRepository) List(ctx context.Context) ([]*domain.Season, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, starts_on, ends_on FROM seasons ORDER BY starts_on`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*domain.Season
	for rows.Next() {
		var s domain.Season
		if err := rows.Scan(&s.ID, &s.Name, &s.StartsOn, &s.EndsOn); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seasons: %w", err)
	}
	return seasons, nil
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) ports.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, season_id, lake, event_date, status, catch_version, created_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, season_id, lake, event_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, event.ID, event.SeasonID, event.Lake, event.Date, event.Status, event.CreatedAt)
	if err != nil {
		if constraintViolation(err, foreignKeyViolation, "") {
			return domain.ErrSeasonNotFound
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE season_id = $1 ORDER BY event_date, id`
	return r.query(ctx, query, seasonID)
}

func (r *eventRepository) ListFinalized(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY event_date, id`
	return r.query(ctx, query, domain.EventFinalized)
}

func (r *eventRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.NewValidationError("event", id, "status is no longer "+string(from))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	var status string
	if err := row.Scan(&e.ID, &e.SeasonID, &e.Lake, &e.Date, &status, &e.CatchVersion, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	return &e, nil
}

// lockEvent takes a row lock on the event for the rest of tx and returns its
// status, season and catch version.
func lockEvent(ctx context.Context, tx *sql.Tx, id uuid.UUID) (domain.EventStatus, uuid.UUID, int64, error) {
	var status string
	var seasonID uuid.UUID
	var version int64
	err := tx.QueryRowContext(ctx, `SELECT status, season_id, catch_version FROM events WHERE id = $1 FOR UPDATE`, id).
		Scan(&status, &seasonID, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", uuid.Nil, 0, domain.ErrEventNotFound
		}
		return "", uuid.Nil, 0, fmt.Errorf("failed to lock event: %w", err)
	}
	return domain.EventStatus(status), seasonID, version, nil
}

func bumpCatchVersion(ctx context.Context, tx *sql.Tx, eventID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `UPDATE events SET catch_version = catch_version + 1 WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to bump catch version: %w", err)
	}
	return nil
}
