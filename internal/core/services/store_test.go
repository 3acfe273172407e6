package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
)

// memStore backs both repositories with one mutex-guarded map, mirroring the
// single data store that arbitrates concurrency in production: RecordVote
// applies the ledger insert and the counter increments atomically under the
// lock, and rejects a duplicate (poll, visitor) pair the way the unique
// index does.
type memStore struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
	votes map[uuid.UUID]map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		polls: make(map[uuid.UUID]*domain.Poll),
		votes: make(map[uuid.UUID]map[string]int),
	}
}

func (m *memStore) addPoll(poll *domain.Poll) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[poll.ID] = poll
	m.votes[poll.ID] = make(map[string]int)
}

func (m *memStore) Save(ctx context.Context, poll *domain.Poll) error {
	m.addPoll(poll)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	poll, ok := m.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	cp := *poll
	cp.Options = append([]domain.PollOption(nil), poll.Options...)
	return &cp, nil
}

func (m *memStore) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var polls []*domain.Poll
	for _, poll := range m.polls {
		cp := *poll
		cp.Options = append([]domain.PollOption(nil), poll.Options...)
		polls = append(polls, &cp)
	}
	return polls, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PollStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	poll, ok := m.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Status = status
	return nil
}

func (m *memStore) RecordVote(ctx context.Context, vote *domain.VoteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	poll, ok := m.polls[vote.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	if _, voted := m.votes[vote.PollID][vote.VisitorID]; voted {
		return domain.ErrAlreadyVoted
	}
	if vote.OptionIndex < 0 || vote.OptionIndex >= len(poll.Options) {
		return domain.ErrInvalidOption
	}

	m.votes[vote.PollID][vote.VisitorID] = vote.OptionIndex
	poll.Options[vote.OptionIndex].Votes++
	poll.TotalVotes++
	return nil
}

func (m *memStore) GetVisitorVote(ctx context.Context, pollID uuid.UUID, visitorID string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	optionIndex, ok := m.votes[pollID][visitorID]
	return optionIndex, ok, nil
}

func (m *memStore) RecountPoll(ctx context.Context, pollID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	poll, ok := m.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	for i := range poll.Options {
		poll.Options[i].Votes = 0
	}
	poll.TotalVotes = 0
	for _, optionIndex := range m.votes[pollID] {
		poll.Options[optionIndex].Votes++
		poll.TotalVotes++
	}
	return nil
}
