package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type seedProvider struct {
	name         string
	slug         string
	city         string
	sortOrder    int
	rating       *float64
	reviews      *int
	googleRating *float64
	googleCount  *int
	categories   []string
	featured     bool
	verified     bool
}

func ptr[T any](v T) *T { return &v }

// Seed populates the database with a small development catalogue: a
// Plumbing > Drain Cleaning > Hydro Jetting branch, an Electrical root, and
// a handful of providers across them. It does nothing when any category
// already exists.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM categories"); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	categories := map[string]uuid.UUID{}
	insertCategory := func(name, slug, level string, parent *uuid.UUID, order int) error {
		var id uuid.UUID
		err := tx.GetContext(ctx, &id, `
			INSERT INTO categories (name, slug, level, parent_id, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, name, slug, level, parent, order)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", slug, err)
		}
		categories[slug] = id
		return nil
	}

	if err := insertCategory("Plumbing", "plumbing", "primary", nil, 0); err != nil {
		return err
	}
	plumbing := categories["plumbing"]
	if err := insertCategory("Drain Cleaning", "drain-cleaning", "secondary", &plumbing, 0); err != nil {
		return err
	}
	drain := categories["drain-cleaning"]
	if err := insertCategory("Hydro Jetting", "hydro-jetting", "tertiary", &drain, 0); err != nil {
		return err
	}
	if err := insertCategory("Water Heaters", "water-heaters", "secondary", &plumbing, 1); err != nil {
		return err
	}
	if err := insertCategory("Electrical", "electrical", "primary", nil, 1); err != nil {
		return err
	}

	providers := []seedProvider{
		{name: "Rapid Rooter", slug: "rapid-rooter", city: "Springfield", sortOrder: 1,
			googleRating: ptr(4.8), googleCount: ptr(212), categories: []string{"drain-cleaning"}, verified: true},
		{name: "Ace Plumbing Co", slug: "ace-plumbing-co", city: "Springfield", sortOrder: 2,
			rating: ptr(4.5), reviews: ptr(38), categories: []string{"plumbing", "water-heaters"}, featured: true},
		{name: "JetStream Drains", slug: "jetstream-drains", city: "Shelbyville", sortOrder: 3,
			categories: []string{"hydro-jetting"}},
		{name: "Bright Spark Electric", slug: "bright-spark-electric", city: "Springfield", sortOrder: 4,
			rating: ptr(4.9), reviews: ptr(15), categories: []string{"electrical"}, verified: true},
	}

	for _, p := range providers {
		var id uuid.UUID
		err := tx.GetContext(ctx, &id, `
			INSERT INTO providers (business_name, slug, city, sort_order, rating, review_count,
				google_rating, google_review_count, featured, verified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, p.name, p.slug, p.city, p.sortOrder, p.rating, p.reviews, p.googleRating, p.googleCount, p.featured, p.verified)
		if err != nil {
			return fmt.Errorf("seed insert provider %s: %w", p.slug, err)
		}
		for _, slug := range p.categories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO provider_services (provider_id, category_id) VALUES ($1, $2)
			`, id, categories[slug])
			if err != nil {
				return fmt.Errorf("seed link %s to %s: %w", p.slug, slug, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development catalogue",
		"categories", len(categories),
		"providers", len(providers),
	)
	return nil
}
