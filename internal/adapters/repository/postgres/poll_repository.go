package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
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
		INSERT INTO polls (id, slug, question, status, total_votes)
		VALUES ($1, $2, $3, $4, 0)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.Slug, poll.Question, poll.Status)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (poll_id, position, text, votes)
		VALUES ($1, $2, $3, 0)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, opt := range poll.Options {
		_, err = stmt.ExecContext(ctx, poll.ID, i, opt.Text)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, slug, question, status, total_votes, created_at, updated_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.Slug, &poll.Question, &poll.Status, &poll.TotalVotes,
		&poll.CreatedAt, &poll.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, slug, question, status, total_votes, created_at, updated_at
		FROM polls
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.Slug, &poll.Question, &poll.Status, &poll.TotalVotes,
			&poll.CreatedAt, &poll.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PollStatus) error {
	query := `
		UPDATE polls SET status = $2, updated_at = NOW() WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update poll status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT text, votes
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
		if err := rows.Scan(&opt.Text, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
