// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level is the depth of a category in the three-level taxonomy.
type Level string

// Category levels, from the top of the tree to its leaves.
const (
	LevelPrimary   Level = "primary"
	LevelSecondary Level = "secondary"
	LevelTertiary  Level = "tertiary"
)

// Depth returns 0 for primary, 1 for secondary and 2 for tertiary.
// Unknown levels return -1.
func (l Level) Depth() int {
	switch l {
	case LevelPrimary:
		return 0
	case LevelSecondary:
		return 1
	case LevelTertiary:
		return 2
	default:
		return -1
	}
}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	return l.Depth() >= 0
}

// Category represents a node of the service taxonomy.
// Providers are attached to categories through ProviderService rows.
type Category struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug"`
	Description string     `db:"description" json:"description"`
	Icon        string     `db:"icon" json:"icon"`
	Level       Level      `db:"level" json:"level"`
	ParentID    *uuid.UUID `db:"parent_id" json:"parent_id"`
	SortOrder   int        `db:"sort_order" json:"sort_order"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Virtual fields populated by the directory service.
	Children      []Category `db:"-" json:"children,omitempty"`
	ProviderCount int        `db:"-" json:"provider_count"`
}

// Validate checks the level invariant against the category's parent.
// parent must be nil exactly when c has no ParentID.
func (c *Category) Validate(parent *Category) error {
	if !c.Level.Valid() {
		return fmt.Errorf("unknown category level %q: %w", c.Level, ErrInvalidArgument)
	}
	if c.Level == LevelPrimary {
		if c.ParentID != nil {
			return fmt.Errorf("primary category cannot have a parent: %w", ErrInvalidArgument)
		}
		return nil
	}
	if c.ParentID == nil || parent == nil {
		return fmt.Errorf("%s category requires a parent: %w", c.Level, ErrInvalidArgument)
	}
	if parent.Level.Depth()+1 != c.Level.Depth() {
		return fmt.Errorf("%s category cannot sit under a %s category: %w", c.Level, parent.Level, ErrInvalidArgument)
	}
	return nil
}

// CategorySet is the closed set of category IDs that count as "in" a
// category: the category itself plus all of its descendants.
type CategorySet map[uuid.UUID]struct{}

// NewCategorySet builds a set from the given IDs.
func NewCategorySet(ids ...uuid.UUID) CategorySet {
	s := make(CategorySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s CategorySet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in no particular order.
func (s CategorySet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
