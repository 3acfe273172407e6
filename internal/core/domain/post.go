package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is the slice of a content document the cache layer cares about:
// enough to derive its public URL and whether it is live.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	CountrySlug string     `json:"country_slug,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
