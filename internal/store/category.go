// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicedir/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sqlx.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, icon, level, parent_id, sort_order, active, created_at, updated_at`

// List returns all categories ordered for display (sort_order, then name).
// Inactive categories are included only when includeInactive is set.
func (s *CategoryStore) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY sort_order, name`

	var items []models.Category
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, failure("list categories", err)
	}
	return items, nil
}

// FindCategory retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, failure("find category by id", err)
	}
	return &c, nil
}

// FindBySlug retrieves a category by its slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, failure("find category by slug", err)
	}
	return &c, nil
}

// ListCategoryChildren returns the direct children of a category,
// active or not.
func (s *CategoryStore) ListCategoryChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var items []models.Category
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_id = $1
		ORDER BY sort_order, name`, parentID)
	if err != nil {
		return nil, failure("list category children", err)
	}
	return items, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	var created models.Category
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO categories (name, slug, description, icon, level, parent_id, sort_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Icon, c.Level, c.ParentID, c.SortOrder, c.Active,
	).StructScan(&created)
	if err != nil {
		return nil, failure("create category", err)
	}
	return &created, nil
}

// Update modifies the editable fields of a category. Level and parent are
// fixed at creation.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, icon = $4,
			sort_order = $5, active = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.Icon, c.SortOrder, c.Active, c.ID)
	if err != nil {
		return failure("update category", err)
	}
	return requireRow(res, "update category")
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.GetContext(ctx, &maxOrder, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`)
	} else {
		err = s.db.GetContext(ctx, &maxOrder, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID)
	}
	if err != nil {
		return 0, failure("next category sort order", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// requireRow turns a zero-row write into models.ErrNotFound.
func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return failure(op, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
