package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// SubmitVote runs the precondition chain in order, each check
// short-circuiting before any mutation, then records the vote and the
// aggregate increments in one transaction. The unique ledger constraint is
// the final arbiter for duplicates: two concurrent submissions for the same
// (poll, visitor) pair both pass the read check, but only one insert commits.
func (s *voteService) SubmitVote(ctx context.Context, input ports.SubmitVoteInput) (*ports.VoteResult, error) {
	if input.VisitorID == "" {
		return nil, domain.ErrVisitorIDRequired
	}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	if poll.Status != domain.PollStatusActive {
		return nil, domain.ErrPollNotActive
	}

	if !poll.HasOption(input.OptionIndex) {
		return nil, domain.ErrInvalidOption
	}

	_, found, err := s.voteRepo.GetVisitorVote(ctx, input.PollID, input.VisitorID)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, domain.ErrAlreadyVoted
	}

	vote := &domain.VoteRecord{
		ID:          uuid.New(),
		PollID:      input.PollID,
		OptionIndex: input.OptionIndex,
		VisitorID:   input.VisitorID,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
		CreatedAt:   time.Now(),
	}

	if err := s.voteRepo.RecordVote(ctx, vote); err != nil {
		return nil, err
	}

	// Re-read so the response reflects the committed aggregate, votes from
	// concurrent visitors included.
	poll, err = s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	return &ports.VoteResult{
		Results:          poll.Results(),
		TotalVotes:       poll.TotalVotes,
		VotedOptionIndex: input.OptionIndex,
	}, nil
}

func (s *voteService) GetVoteStatus(ctx context.Context, pollID uuid.UUID, visitorID string) (*ports.VoteStatus, error) {
	if visitorID == "" {
		return nil, domain.ErrVisitorIDRequired
	}

	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	optionIndex, found, err := s.voteRepo.GetVisitorVote(ctx, pollID, visitorID)
	if err != nil {
		return nil, err
	}

	status := &ports.VoteStatus{
		HasVoted:         found,
		VotedOptionIndex: -1,
		Results:          poll.Results(),
		TotalVotes:       poll.TotalVotes,
	}
	if found {
		status.VotedOptionIndex = optionIndex
	}
	return status, nil
}
