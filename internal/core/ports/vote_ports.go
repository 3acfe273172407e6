package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
)

type VoteRepository interface {
	// RecordVote appends a ledger entry and applies both aggregate
	// increments (option counter and poll total) in one transaction.
	// A concurrent duplicate surfaces as domain.ErrAlreadyVoted.
	RecordVote(ctx context.Context, vote *domain.VoteRecord) error

	// GetVisitorVote reports whether a ledger entry exists for the pair
	// and, if so, which option it points at.
	GetVisitorVote(ctx context.Context, pollID uuid.UUID, visitorID string) (optionIndex int, found bool, err error)

	// RecountPoll rebuilds a poll's aggregate counters from the ledger.
	RecountPoll(ctx context.Context, pollID uuid.UUID) error
}

type SubmitVoteInput struct {
	PollID      uuid.UUID
	OptionIndex int
	VisitorID   string
	IPAddress   string
	UserAgent   string
}

type VoteResult struct {
	Results          []domain.OptionResult
	TotalVotes       int64
	VotedOptionIndex int
}

type VoteStatus struct {
	HasVoted         bool
	VotedOptionIndex int
	Results          []domain.OptionResult
	TotalVotes       int64
}

type VoteService interface {
	SubmitVote(ctx context.Context, input SubmitVoteInput) (*VoteResult, error)
	GetVoteStatus(ctx context.Context, pollID uuid.UUID, visitorID string) (*VoteStatus, error)
}

type RepairService interface {
	RecountAllPolls(ctx context.Context) error
}
