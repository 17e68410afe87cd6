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

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// SaveVote leaves the one-vote-per-angler rule to the votes_poll_angler_key
// constraint so concurrent first votes cannot both land. The poll row is
// share-locked for the insert, so a concurrent close either waits for the
// vote or rejects it.
func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockOpenPoll(ctx, tx, vote.PollID); err != nil {
		return err
	}

	query := `
		INSERT INTO votes (id, poll_id, option_id, angler_id, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.ExecContext(ctx, query, vote.ID, vote.PollID, vote.OptionID, vote.AnglerID, vote.CreatedAt); err != nil {
		return mapVoteError(err, vote)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *voteRepository) ReplaceVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockOpenPoll(ctx, tx, vote.PollID); err != nil {
		return err
	}

	query := `
		UPDATE votes SET id = $1, option_id = $2, created_at = $5
		WHERE poll_id = $3 AND angler_id = $4
	`
	res, err := tx.ExecContext(ctx, query, vote.ID, vote.OptionID, vote.PollID, vote.AnglerID, vote.CreatedAt)
	if err != nil {
		return mapVoteError(err, vote)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to replace vote: %w", err)
	}
	if n == 0 {
		return domain.ErrDidNotVote
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *voteRepository) DeleteVote(ctx context.Context, pollID, anglerID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockOpenPoll(ctx, tx, pollID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1 AND angler_id = $2`, pollID, anglerID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if n == 0 {
		return domain.ErrDidNotVote
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockOpenPoll holds a share lock on the poll row until tx ends. Close takes
// a row lock to set closed_at, so it cannot slip in between the check and the
// write that follows.
func lockOpenPoll(ctx context.Context, tx *sql.Tx, pollID uuid.UUID) error {
	var closedAt sql.NullTime
	err := tx.QueryRowContext(ctx, `SELECT closed_at FROM polls WHERE id = $1 FOR SHARE`, pollID).Scan(&closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to lock poll: %w", err)
	}
	if closedAt.Valid {
		return &domain.PollClosedError{PollID: pollID, At: closedAt.Time}
	}
	return nil
}

func (r *voteRepository) GetVote(ctx context.Context, pollID, anglerID uuid.UUID) (*domain.Vote, error) {
	query := `SELECT id, poll_id, option_id, angler_id, created_at FROM votes WHERE poll_id = $1 AND angler_id = $2`
	var v domain.Vote
	err := r.db.QueryRowContext(ctx, query, pollID, anglerID).Scan(&v.ID, &v.PollID, &v.OptionID, &v.AnglerID, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDidNotVote
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &v, nil
}

func (r *voteRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	query := `SELECT id, poll_id, option_id, angler_id, created_at FROM votes WHERE poll_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.PollID, &v.OptionID, &v.AnglerID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func mapVoteError(err error, vote *domain.Vote) error {
	switch {
	case constraintViolation(err, uniqueViolation, "votes_poll_angler_key"):
		return &domain.DuplicateVoteError{PollID: vote.PollID, AnglerID: vote.AnglerID}
	case constraintViolation(err, foreignKeyViolation, "votes_poll_option_fkey"):
		return domain.ErrInvalidOption
	case constraintViolation(err, foreignKeyViolation, ""):
		return domain.ErrPollNotFound
	}
	return fmt.Errorf("failed to save vote: %w", err)
}
