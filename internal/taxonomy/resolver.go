// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy resolves the category hierarchy: which category IDs
// count as "in" a category, and the nested tree used by listings.
package taxonomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"servicedir/internal/models"
)

// CategoryReader is the slice of the store the resolver needs.
// FindCategory returns (nil, nil) when the category does not exist.
type CategoryReader interface {
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategoryChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
}

// SetCache stores resolved category sets between requests. Misses and
// cache errors are indistinguishable to the resolver. Get reports the cache
// generation it looked in, and Set writes into that generation, so a set
// computed across an InvalidateAll is never served. A negative version
// means the cache could not tell and Set should skip the write.
type SetCache interface {
	Get(ctx context.Context, id uuid.UUID) (set models.CategorySet, version int64, ok bool)
	Set(ctx context.Context, id uuid.UUID, version int64, set models.CategorySet)
	InvalidateAll(ctx context.Context)
}

// Resolver expands a category into itself plus all of its descendants.
type Resolver struct {
	reader CategoryReader
	cache  SetCache
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(reader CategoryReader, cache SetCache) *Resolver {
	return &Resolver{reader: reader, cache: cache}
}

// Resolve returns the closed category set of id. A leaf resolves to just
// itself. Inactive descendants are included. The walk is breadth-first and
// needs no cycle guard beyond set membership because a child's level is
// always deeper than its parent's.
func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) (models.CategorySet, error) {
	version := int64(-1)
	if r.cache != nil {
		set, v, ok := r.cache.Get(ctx, id)
		if ok {
			return set, nil
		}
		version = v
	}

	root, err := r.reader.FindCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve category %s: %w", id, err)
	}
	if root == nil {
		return nil, fmt.Errorf("category %s: %w", id, models.ErrNotFound)
	}

	set := models.NewCategorySet(id)
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		children, err := r.reader.ListCategoryChildren(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("resolve children of %s: %w", parent, err)
		}
		for _, c := range children {
			if set.Contains(c.ID) {
				continue
			}
			set[c.ID] = struct{}{}
			queue = append(queue, c.ID)
		}
	}

	if r.cache != nil {
		r.cache.Set(ctx, id, version, set)
	}
	slog.Debug("category set resolved", "category_id", id, "size", len(set))
	return set, nil
}

// Invalidate drops every cached set. Called after any category write,
// since a new or moved category can change the sets of all its ancestors.
func (r *Resolver) Invalidate(ctx context.Context) {
	if r.cache != nil {
		r.cache.InvalidateAll(ctx)
	}
}
