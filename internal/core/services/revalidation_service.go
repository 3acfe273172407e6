package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

const sitemapTag = "posts-sitemap"

type revalidationDispatcher struct {
	invalidator ports.CacheInvalidator
	locales     []string
}

func NewRevalidationDispatcher(invalidator ports.CacheInvalidator) ports.RevalidationDispatcher {
	return &revalidationDispatcher{
		invalidator: invalidator,
		locales:     domain.SupportedLocales,
	}
}

// PostChanged invalidates the paths and tags a post edit can have made
// stale. The home page always goes stale alongside a post path because list
// views embed recent posts. When a post leaves the published state, the path
// is derived from the previous document, since the current one no longer
// carries a live URL.
func (d *revalidationDispatcher) PostChanged(ctx context.Context, evt ports.PostChangeEvent) {
	if evt.DisableRevalidate {
		return
	}

	doc := evt.Doc
	prev := evt.PreviousDoc

	if doc != nil && doc.Published {
		d.invalidatePath(ctx, PostPath(doc))
		d.invalidatePath(ctx, "/")
		d.invalidateTag(ctx, sitemapTag)
	}

	if prev != nil && prev.Published && (doc == nil || !doc.Published) {
		d.invalidatePath(ctx, PostPath(prev))
		d.invalidatePath(ctx, "/")
		d.invalidateTag(ctx, sitemapTag)
	}
}

func (d *revalidationDispatcher) PostDeleted(ctx context.Context, evt ports.PostChangeEvent) {
	if evt.DisableRevalidate {
		return
	}

	doc := evt.Doc
	if doc == nil {
		doc = evt.PreviousDoc
	}
	if doc == nil {
		return
	}

	d.invalidatePath(ctx, PostPath(doc))
	d.invalidatePath(ctx, "/")
	d.invalidateTag(ctx, sitemapTag)
}

// PollChanged invalidates what a poll edit can have made stale: the pages
// embedding this poll (grouped under its tag) and the home page, which lists
// recent content. Fires on any lifecycle transition, closing included, so a
// closed poll stops rendering as votable.
func (d *revalidationDispatcher) PollChanged(ctx context.Context, evt ports.PollChangeEvent) {
	if evt.DisableRevalidate || evt.Poll == nil {
		return
	}

	d.invalidateTag(ctx, PollTag(evt.Poll.ID))
	d.invalidatePath(ctx, "/")
}

// GlobalChanged fans out across every supported locale. The editorial UI
// does not report which locale was edited, so the superset of plausibly
// affected tags is invalidated; a needless miss is cheaper than stale data.
func (d *revalidationDispatcher) GlobalChanged(ctx context.Context, evt ports.GlobalChangeEvent) {
	if evt.DisableRevalidate {
		return
	}

	for _, locale := range d.locales {
		d.invalidateTag(ctx, GlobalTag(evt.Slug, locale))
	}
}

func (d *revalidationDispatcher) invalidatePath(ctx context.Context, path string) {
	if err := d.invalidator.InvalidatePath(ctx, path); err != nil {
		log.Printf("revalidation: invalidate path %s: %v", path, err)
	}
}

func (d *revalidationDispatcher) invalidateTag(ctx context.Context, tag string) {
	if err := d.invalidator.InvalidateTag(ctx, tag); err != nil {
		log.Printf("revalidation: invalidate tag %s: %v", tag, err)
	}
}

// PostPath derives a post's public URL: /{normalizedCountry}/{slug}, or
// /{slug} when the post has no resolvable country.
func PostPath(post *domain.Post) string {
	country := normalizeCountrySlug(post.CountrySlug)
	if country == "" {
		return "/" + post.Slug
	}
	return "/" + country + "/" + post.Slug
}

func GlobalTag(slug, locale string) string {
	return "global_" + slug + "_" + locale
}

func PollTag(id uuid.UUID) string {
	return "poll_" + id.String()
}

// normalizeCountrySlug strips everything that is not a letter or digit.
func normalizeCountrySlug(slug string) string {
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
