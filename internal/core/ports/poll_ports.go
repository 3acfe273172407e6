package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PollStatus) error
}

type CreatePollInput struct {
	Question string
	Slug     string
	Options  []string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	SetStatus(ctx context.Context, id string, status domain.PollStatus) (*domain.Poll, error)
}
