package ports

import (
	"context"

	"github.com/newspoll/api/internal/core/domain"
)

// CacheInvalidator is the primitive the dispatcher speaks to. Paths identify
// cached rendered pages; tags group cached data entries so one signal drops
// all of them.
type CacheInvalidator interface {
	InvalidatePath(ctx context.Context, path string) error
	InvalidateTag(ctx context.Context, tag string) error
}

type PostChangeEvent struct {
	Doc               *domain.Post
	PreviousDoc       *domain.Post
	DisableRevalidate bool
}

type GlobalChangeEvent struct {
	Slug              string
	DisableRevalidate bool
}

type PollChangeEvent struct {
	Poll              *domain.Poll
	DisableRevalidate bool
}

// RevalidationDispatcher translates content mutations into invalidation
// commands. Dispatch is fire-and-forget: failures are logged, never returned,
// because the mutation itself has already committed.
type RevalidationDispatcher interface {
	PostChanged(ctx context.Context, evt PostChangeEvent)
	PostDeleted(ctx context.Context, evt PostChangeEvent)
	PollChanged(ctx context.Context, evt PollChangeEvent)
	GlobalChanged(ctx context.Context, evt GlobalChangeEvent)
}
