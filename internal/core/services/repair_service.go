package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/newspoll/api/internal/core/ports"
)

type repairService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

// NewRepairService builds the aggregate-repair job. The ledger is the source
// of truth; poll counters are a materialized view that a crash between the
// ledger insert and the increments could leave behind. Recounting from the
// ledger makes that window self-healing.
func NewRepairService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.RepairService {
	return &repairService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

func (s *repairService) RecountAllPolls(ctx context.Context) error {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, poll := range polls {
		pollID := poll.ID
		g.Go(func() error {
			if err := s.voteRepo.RecountPoll(ctx, pollID); err != nil {
				return fmt.Errorf("failed to recount poll %s: %w", pollID, err)
			}
			return nil
		})
	}

	return g.Wait()
}
