package ports

import (
	"context"

	"github.com/newspoll/api/internal/core/domain"
)

type GlobalRepository interface {
	GetGlobal(ctx context.Context, slug string, depth int, locale string) (*domain.GlobalDocument, error)
}

// TaggedCache stores serialized values under keys grouped by invalidation
// tags. Entries never expire on their own; only InvalidateTag removes them.
type TaggedCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetTagged(ctx context.Context, key string, value interface{}, tags ...string) error
}

// GlobalAccessor is a lazy memoized read of one global document.
type GlobalAccessor func(ctx context.Context) (*domain.GlobalDocument, error)

type GlobalReader interface {
	GetCachedGlobal(slug string, depth int, locale string) GlobalAccessor
}
