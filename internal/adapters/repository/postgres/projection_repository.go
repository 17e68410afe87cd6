package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type eventResultRepository struct {
	db *sql.DB
}

func NewEventResultRepository(db *sql.DB) ports.EventResultRepository {
	return &eventResultRepository{db: db}
}

func (r *eventResultRepository) Replace(ctx context.Context, eventID uuid.UUID, sourceVersion int64, results []domain.EventResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, seasonID, version, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return err
	}
	if version != sourceVersion {
		return &domain.ConsistencyError{Entity: "event", ID: eventID, Expected: sourceVersion, Actual: version}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_results WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear event results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_results (
			event_id, angler_id, position, weight, penalty, net_weight, fish_count,
			big_bass, big_bass_weight, disqualified, rank, points
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result statement: %w", err)
	}
	defer stmt.Close()

	for i, res := range results {
		_, err := stmt.ExecContext(ctx,
			eventID, res.AnglerID, i, res.Weight, res.Penalty, res.NetWeight, res.FishCount,
			res.BigBass, res.BigBassWeight, res.Disqualified, res.Rank, res.Points,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event result: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE seasons SET results_version = results_version + 1 WHERE id = $1`, seasonID); err != nil {
		return fmt.Errorf("failed to bump results version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const resultColumns = `r.event_id, r.angler_id, r.weight, r.penalty, r.net_weight, r.fish_count,
	r.big_bass, r.big_bass_weight, r.disqualified, r.rank, r.points`

func (r *eventResultRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.EventResult, error) {
	query := `SELECT ` + resultColumns + ` FROM event_results r WHERE r.event_id = $1 ORDER BY r.position`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (r *eventResultRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]domain.EventResult, int64, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT results_version FROM seasons WHERE id = $1`, seasonID).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, domain.ErrSeasonNotFound
		}
		return nil, 0, fmt.Errorf("failed to get results version: %w", err)
	}

	query := `
		SELECT ` + resultColumns + `
		FROM event_results r
		JOIN events e ON e.id = r.event_id
		WHERE e.season_id = $1 AND e.status = $2
		ORDER BY e.event_date, r.event_id, r.position
	`
	rows, err := tx.QueryContext(ctx, query, seasonID, domain.EventFinalized)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get season results: %w", err)
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, version, nil
}

func scanResults(rows *sql.Rows) ([]domain.EventResult, error) {
	var results []domain.EventResult
	for rows.Next() {
		var res domain.EventResult
		err := rows.Scan(&res.EventID, &res.AnglerID, &res.Weight, &res.Penalty, &res.NetWeight, &res.FishCount,
			&res.BigBass, &res.BigBassWeight, &res.Disqualified, &res.Rank, &res.Points)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event results: %w", err)
	}
	return results, nil
}

type standingsRepository struct {
	db *sql.DB
}

func NewStandingsRepository(db *sql.DB) ports.StandingsRepository {
	return &standingsRepository{db: db}
}

func (r *standingsRepository) Replace(ctx context.Context, seasonID uuid.UUID, sourceVersion int64, entries []domain.SeasonStandingEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx, `SELECT results_version FROM seasons WHERE id = $1 FOR UPDATE`, seasonID).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSeasonNotFound
		}
		return fmt.Errorf("failed to lock season: %w", err)
	}
	if version != sourceVersion {
		return &domain.ConsistencyError{Entity: "season", ID: seasonID, Expected: sourceVersion, Actual: version}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_standings WHERE season_id = $1`, seasonID); err != nil {
		return fmt.Errorf("failed to clear season standings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO season_standings (
			season_id, angler_id, position, points, events_fished, dropped_events,
			total_weight, total_big_bass_weight, big_bass_awards, qualified, rank
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare standings statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		dropped := make(pq.StringArray, 0, len(e.DroppedEvents))
		for _, id := range e.DroppedEvents {
			dropped = append(dropped, id.String())
		}
		_, err := stmt.ExecContext(ctx,
			seasonID, e.AnglerID, i, e.Points, e.EventsFished, dropped,
			e.TotalWeight, e.TotalBigBassWeight, e.BigBassAwards, e.Qualified, e.Rank,
		)
		if err != nil {
			return fmt.Errorf("failed to insert standing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *standingsRepository) List(ctx context.Context, seasonID uuid.UUID) ([]domain.SeasonStandingEntry, error) {
	query := `
		SELECT angler_id, points, events_fished, dropped_events, total_weight,
		       total_big_bass_weight, big_bass_awards, qualified, rank
		FROM season_standings
		WHERE season_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get season standings: %w", err)
	}
	defer rows.Close()

	var entries []domain.SeasonStandingEntry
	for rows.Next() {
		var e domain.SeasonStandingEntry
		var dropped pq.StringArray
		err := rows.Scan(&e.AnglerID, &e.Points, &e.EventsFished, &dropped, &e.TotalWeight,
			&e.TotalBigBassWeight, &e.BigBassAwards, &e.Qualified, &e.Rank)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		for _, s := range dropped {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("failed to parse dropped event id: %w", err)
			}
			e.DroppedEvents = append(e.DroppedEvents, id)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}
	return entries, nil
}
