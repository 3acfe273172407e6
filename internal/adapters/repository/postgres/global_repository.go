package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

type globalRepository struct {
	db *sql.DB
}

func NewGlobalRepository(db *sql.DB) ports.GlobalRepository {
	return &globalRepository{
		db: db,
	}
}

// GetGlobal reads one singleton configuration document. Depth 0 returns the
// bare document; any positive depth also populates its nav link relations.
func (r *globalRepository) GetGlobal(ctx context.Context, slug string, depth int, locale string) (*domain.GlobalDocument, error) {
	query := `
		SELECT slug, locale, data, updated_at
		FROM globals
		WHERE slug = $1 AND locale = $2
	`

	var doc domain.GlobalDocument
	err := r.db.QueryRowContext(ctx, query, slug, locale).Scan(
		&doc.Slug, &doc.Locale, &doc.Data, &doc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrGlobalNotFound
		}
		return nil, fmt.Errorf("failed to get global %s(%s): %w", slug, locale, err)
	}

	if depth > 0 {
		links, err := r.fetchNavLinks(ctx, slug, locale)
		if err != nil {
			return nil, err
		}
		doc.NavLinks = links
	}

	return &doc, nil
}

func (r *globalRepository) fetchNavLinks(ctx context.Context, slug, locale string) ([]domain.NavLink, error) {
	query := `
		SELECT position, label, url
		FROM global_nav_links
		WHERE global_slug = $1 AND locale = $2
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, slug, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to get nav links: %w", err)
	}
	defer rows.Close()

	var links []domain.NavLink
	for rows.Next() {
		var link domain.NavLink
		if err := rows.Scan(&link.Position, &link.Label, &link.URL); err != nil {
			return nil, fmt.Errorf("failed to scan nav link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nav links: %w", err)
	}
	return links, nil
}
