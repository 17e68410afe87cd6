package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type catchRepository struct {
	db *sql.DB
}

func NewCatchRepository(db *sql.DB) ports.CatchRepository {
	return &catchRepository{db: db}
}

func (r *catchRepository) Save(ctx context.Context, record *domain.CatchRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status, _, _, err := lockEvent(ctx, tx, record.EventID)
	if err != nil {
		return err
	}
	if status != domain.EventInProgress {
		return domain.NewValidationError("event", record.EventID, "catches can only be entered while the event is in progress")
	}

	query := `
		INSERT INTO catch_records (id, event_id, angler_id, weight, fish_count, big_bass, big_bass_weight, disqualified, penalty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, query,
		record.ID, record.EventID, record.AnglerID, record.Weight, record.FishCount,
		record.BigBass, record.BigBassWeight, record.Disqualified, record.Penalty, record.CreatedAt,
	)
	if err != nil {
		if constraintViolation(err, uniqueViolation, "catch_records_event_angler_key") {
			return domain.NewValidationError("catch record", record.ID, "angler already has a catch record for this event")
		}
		if constraintViolation(err, foreignKeyViolation, "") {
			return domain.ErrAnglerNotFound
		}
		return fmt.Errorf("failed to insert catch record: %w", err)
	}

	if err := bumpCatchVersion(ctx, tx, record.EventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *catchRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.CatchRecord, int64, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT catch_version FROM events WHERE id = $1`, eventID).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, domain.ErrEventNotFound
		}
		return nil, 0, fmt.Errorf("failed to get catch version: %w", err)
	}

	query := `
		SELECT id, event_id, angler_id, weight, fish_count, big_bass, big_bass_weight, disqualified, penalty, created_at
		FROM catch_records
		WHERE event_id = $1
		ORDER BY angler_id
	`
	rows, err := tx.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get catch records: %w", err)
	}
	defer rows.Close()

	var records []domain.CatchRecord
	for rows.Next() {
		var c domain.CatchRecord
		err := rows.Scan(&c.ID, &c.EventID, &c.AnglerID, &c.Weight, &c.FishCount,
			&c.BigBass, &c.BigBassWeight, &c.Disqualified, &c.Penalty, &c.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan catch record: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating catch records: %w", err)
	}
	return records, version, nil
}

func (r *catchRepository) Correct(ctx context.Context, correction *domain.CatchCorrection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status, _, _, err := lockEvent(ctx, tx, correction.EventID)
	if err != nil {
		return err
	}
	if status != domain.EventFinalized {
		return domain.NewValidationError("event", correction.EventID, "corrections apply to finalized events only")
	}

	after := correction.After
	res, err := tx.ExecContext(ctx, `
		UPDATE catch_records
		SET weight = $3, fish_count = $4, big_bass = $5, big_bass_weight = $6, disqualified = $7, penalty = $8
		WHERE event_id = $1 AND angler_id = $2
	`, correction.EventID, correction.AnglerID, after.Weight, after.FishCount, after.BigBass, after.BigBassWeight, after.Disqualified, after.Penalty)
	if err != nil {
		return fmt.Errorf("failed to update catch record: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update catch record: %w", err)
	} else if n == 0 {
		return domain.ErrCatchNotFound
	}

	before, err := json.Marshal(correction.Before)
	if err != nil {
		return fmt.Errorf("failed to encode catch record: %w", err)
	}
	afterJSON, err := json.Marshal(correction.After)
	if err != nil {
		return fmt.Errorf("failed to encode catch record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catch_corrections (id, event_id, angler_id, before, after, reason, corrected_by, corrected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, correction.ID, correction.EventID, correction.AnglerID, before, afterJSON, correction.Reason, correction.CorrectedBy, correction.CorrectedAt)
	if err != nil {
		return fmt.Errorf("failed to insert catch correction: %w", err)
	}

	if err := bumpCatchVersion(ctx, tx, correction.EventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *catchRepository) ListCorrections(ctx context.Context, eventID uuid.UUID) ([]domain.CatchCorrection, error) {
	query := `
		SELECT id, event_id, angler_id, before, after, reason, corrected_by, corrected_at
		FROM catch_corrections
		WHERE event_id = $1
		ORDER BY corrected_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get catch corrections: %w", err)
	}
	defer rows.Close()

	var corrections []domain.CatchCorrection
	for rows.Next() {
		var c domain.CatchCorrection
		var before, after []byte
		if err := rows.Scan(&c.ID, &c.EventID, &c.AnglerID, &before, &after, &c.Reason, &c.CorrectedBy, &c.CorrectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catch correction: %w", err)
		}
		if err := json.Unmarshal(before, &c.Before); err != nil {
			return nil, fmt.Errorf("failed to decode catch record: %w", err)
		}
		if err := json.Unmarshal(after, &c.After); err != nil {
			return nil, fmt.Errorf("failed to decode catch record: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catch corrections: %w", err)
	}
	return corrections, nil
}
