package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
)

type AnglerRepository struct {
	db *sql.DB
}

// NewAnglerRepository returns the angler store, which also serves as the
// membership directory for poll eligibility.
func NewAnglerRepository(db *sql.DB) *AnglerRepository {
	return &AnglerRepository{db: db}
}

func (r *AnglerRepository) Create(ctx context.Context, angler *domain.Angler) error {
	query := `
		INSERT INTO anglers (id, name, email, active, joined_at, left_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, angler.ID, angler.Name, angler.Email, angler.Active, angler.JoinedAt, angler.LeftAt)
	if err != nil {
		return fmt.Errorf("failed to insert angler: %w", err)
	}
	return nil
}

func (r *AnglerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Angler, error) {
	query := `SELECT id, name, email, active, joined_at, left_at FROM anglers WHERE id = $1`
	angler := &domain.Angler{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&angler.ID, &angler.Name, &angler.Email, &angler.Active, &angler.JoinedAt, &angler.LeftAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnglerNotFound
		}
		return nil, fmt.Errorf("failed to get angler: %w", err)
	}
	return angler, nil
}

func (r *AnglerRepository) List(ctx context.Context) ([]*domain.Angler, error) {
	query := `SELECT id, name, email, active, joined_at, left_at FROM anglers ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list anglers: %w", err)
	}
	defer rows.Close()

	var anglers []*domain.Angler
	for rows.Next() {
		a := &domain.Angler{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Active, &a.JoinedAt, &a.LeftAt); err != nil {
			return nil, fmt.Errorf("failed to scan angler: %w", err)
		}
		anglers = append(anglers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anglers: %w", err)
	}
	return anglers, nil
}

func (r *AnglerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.update(ctx, `UPDATE anglers SET active = $2 WHERE id = $1`, id, active)
}

func (r *AnglerRepository) SetLeftAt(ctx context.Context, id uuid.UUID, leftAt time.Time) error {
	return r.update(ctx, `UPDATE anglers SET left_at = $2 WHERE id = $1`, id, leftAt)
}

func (r *AnglerRepository) update(ctx context.Context, query string, id uuid.UUID, value any) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update angler: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update angler: %w", err)
	}
	if n == 0 {
		return domain.ErrAnglerNotFound
	}
	return nil
}

func (r *AnglerRepository) EligibleAnglers(ctx context.Context, rule domain.EligibilityRule, asOf time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM anglers
		WHERE joined_at <= $1
		  AND (left_at IS NULL OR left_at > $1)
		  AND ($2 = FALSE OR active)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, asOf, rule == domain.EligibilityActiveMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible anglers: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan angler id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eligible anglers: %w", err)
	}
	return ids, nil
}
