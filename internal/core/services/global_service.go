package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

type globalReader struct {
	repo  ports.GlobalRepository
	cache ports.TaggedCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGlobalReader(repo ports.GlobalRepository, cache ports.TaggedCache) ports.GlobalReader {
	return &globalReader{
		repo:  repo,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

// GetCachedGlobal returns a lazy accessor memoized per (slug, depth, locale).
// The cached entry carries no TTL: it stays valid until the dispatcher fires
// the global_{slug}_{locale} tag, at which point the next access repopulates
// it from the repository.
func (g *globalReader) GetCachedGlobal(slug string, depth int, locale string) ports.GlobalAccessor {
	key := fmt.Sprintf("global:%s:%d:%s", slug, depth, locale)
	tag := GlobalTag(slug, locale)

	return func(ctx context.Context) (*domain.GlobalDocument, error) {
		if doc, ok := g.cachedDoc(ctx, key); ok {
			return doc, nil
		}

		// One loader per key; concurrent misses for the same document
		// wait instead of stampeding the repository.
		lock := g.keyLock(key)
		lock.Lock()
		defer lock.Unlock()

		if doc, ok := g.cachedDoc(ctx, key); ok {
			return doc, nil
		}

		loaded, err := g.repo.GetGlobal(ctx, slug, depth, locale)
		if err != nil {
			return nil, err
		}

		if err := g.cache.SetTagged(ctx, key, loaded, tag); err != nil {
			// A failed cache write only costs the next reader a reload.
			log.Printf("global cache: set %s: %v", key, err)
		}
		return loaded, nil
	}
}

func (g *globalReader) cachedDoc(ctx context.Context, key string) (*domain.GlobalDocument, bool) {
	var doc domain.GlobalDocument
	hit, err := g.cache.Get(ctx, key, &doc)
	if err != nil {
		// A broken cache degrades to repository reads; it never fails them.
		log.Printf("global cache: get %s: %v", key, err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &doc, true
}

func (g *globalReader) keyLock(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[key] = lock
	}
	return lock
}
