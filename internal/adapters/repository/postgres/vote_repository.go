package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

const pqUniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// RecordVote commits the ledger entry and both aggregate increments as one
// transaction. The counters are bumped in place (votes = votes + 1), never
// read-modify-written, so concurrent voters cannot lose updates; the unique
// index on (poll_id, visitor_id) turns a concurrent duplicate into
// domain.ErrAlreadyVoted.
func (r *voteRepository) RecordVote(ctx context.Context, vote *domain.VoteRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, poll_id, option_index, visitor_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryVote,
		vote.ID, vote.PollID, vote.OptionIndex, vote.VisitorID, vote.IPAddress, vote.UserAgent)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	queryOption := `
		UPDATE poll_options SET votes = votes + 1
		WHERE poll_id = $1 AND position = $2
	`
	res, err := tx.ExecContext(ctx, queryOption, vote.PollID, vote.OptionIndex)
	if err != nil {
		return fmt.Errorf("failed to increment option counter: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrInvalidOption
	}

	queryTotal := `
		UPDATE polls SET total_votes = total_votes + 1, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, queryTotal, vote.PollID); err != nil {
		return fmt.Errorf("failed to increment total counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}

	return nil
}

func (r *voteRepository) GetVisitorVote(ctx context.Context, pollID uuid.UUID, visitorID string) (int, bool, error) {
	query := `
		SELECT option_index FROM votes
		WHERE poll_id = $1 AND visitor_id = $2
	`
	var optionIndex int
	err := r.db.QueryRowContext(ctx, query, pollID, visitorID).Scan(&optionIndex)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return optionIndex, true, nil
}

// RecountPoll rebuilds the poll's counters from the ledger in one
// transaction, for when a crash left the materialized counts behind.
func (r *voteRepository) RecountPoll(ctx context.Context, pollID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryOptions := `
		UPDATE poll_options o SET votes = (
			SELECT COUNT(*) FROM votes v
			WHERE v.poll_id = o.poll_id AND v.option_index = o.position
		)
		WHERE o.poll_id = $1
	`
	if _, err := tx.ExecContext(ctx, queryOptions, pollID); err != nil {
		return fmt.Errorf("failed to recount option votes: %w", err)
	}

	queryTotal := `
		UPDATE polls SET total_votes = (
			SELECT COUNT(*) FROM votes v WHERE v.poll_id = polls.id
		), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, queryTotal, pollID); err != nil {
		return fmt.Errorf("failed to recount total votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recount: %w", err)
	}

	return nil
}
