package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, title, description, eligibility, allow_vote_change, opens_at, closes_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Description, poll.Eligibility, poll.AllowVoteChange,
		poll.OpensAt, poll.ClosesAt, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	optionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO poll_options (id, poll_id, text, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer optionStmt.Close()

	for _, opt := range poll.Options {
		_, err = optionStmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.Position, opt.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	eligibleStmt, err := tx.PrepareContext(ctx, `INSERT INTO poll_eligible_anglers (poll_id, angler_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare eligibility statement: %w", err)
	}
	defer eligibleStmt.Close()

	for _, anglerID := range poll.EligibleAnglers {
		if _, err = eligibleStmt.ExecContext(ctx, poll.ID, anglerID); err != nil {
			return fmt.Errorf("failed to insert eligible angler: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const pollColumns = `p.id, p.title, p.description, p.eligibility, p.allow_vote_change, p.opens_at, p.closes_at, p.closed_at, p.created_at`

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls p WHERE p.id = $1`

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.fillPoll(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		LEFT JOIN votes v ON p.id = v.poll_id
		GROUP BY p.id
		ORDER BY COUNT(v.id) DESC, p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) Search(ctx context.Context, limit, offset int, q string) ([]*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		LEFT JOIN votes v ON p.id = v.poll_id
		WHERE p.title ILIKE $1
		GROUP BY p.id
		ORDER BY COUNT(v.id) DESC, p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+q+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) Close(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET closed_at = $2 WHERE id = $1 AND closed_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return &domain.PollClosedError{PollID: id, At: at}
	}
	return nil
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var poll domain.Poll
	var eligibility string
	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description, &eligibility, &poll.AllowVoteChange,
		&poll.OpensAt, &poll.ClosesAt, &poll.ClosedAt, &poll.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	poll.Eligibility = domain.EligibilityRule(eligibility)
	return &poll, nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	rows.Close()

	for _, poll := range polls {
		if err := r.fillPoll(ctx, poll); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (r *pollRepository) fillPoll(ctx context.Context, poll *domain.Poll) error {
	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return err
	}
	poll.Options = options

	eligible, err := r.fetchEligible(ctx, poll.ID)
	if err != nil {
		return err
	}
	poll.EligibleAnglers = eligible
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, text, position, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

func (r *pollRepository) fetchEligible(ctx context.Context, pollID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT angler_id FROM poll_eligible_anglers WHERE poll_id = $1 ORDER BY angler_id`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible anglers: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan eligible angler: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eligible anglers: %w", err)
	}
	return ids, nil
}
