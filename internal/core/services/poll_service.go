package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

type pollService struct {
	repo       ports.PollRepository
	dispatcher ports.RevalidationDispatcher
}

func NewPollService(repo ports.PollRepository, dispatcher ports.RevalidationDispatcher) ports.PollService {
	return &pollService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if input.Question == "" {
		return nil, errors.New("question is required")
	}

	var options []domain.PollOption
	for _, text := range input.Options {
		if text == "" {
			continue
		}
		options = append(options, domain.PollOption{Text: text})
	}
	if len(options) < domain.MinPollOptions {
		return nil, fmt.Errorf("at least %d options are required", domain.MinPollOptions)
	}
	if len(options) > domain.MaxPollOptions {
		return nil, fmt.Errorf("at most %d options are allowed", domain.MaxPollOptions)
	}

	now := time.Now()
	poll := &domain.Poll{
		ID:        uuid.New(),
		Slug:      input.Slug,
		Question:  input.Question,
		Options:   options,
		Status:    domain.PollStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

// SetStatus drives the draft -> active -> closed lifecycle. Transitions are
// operator-driven; no automatic closing is scheduled.
func (s *pollService) SetStatus(ctx context.Context, id string, status domain.PollStatus) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	switch status {
	case domain.PollStatusDraft, domain.PollStatusActive, domain.PollStatusClosed:
	default:
		return nil, fmt.Errorf("unknown poll status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, pollID, status); err != nil {
		return nil, err
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	// A lifecycle transition is a content mutation like any other: pages
	// embedding the poll must re-render.
	s.dispatcher.PollChanged(ctx, ports.PollChangeEvent{Poll: poll})

	return poll, nil
}
