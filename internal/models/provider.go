// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusFlags are four independent booleans. They are badges, not states:
// any combination is valid and none of them affects ranking.
type StatusFlags struct {
	Active   bool `db:"active" json:"active"`
	Featured bool `db:"featured" json:"featured"`
	Premium  bool `db:"premium" json:"premium"`
	Verified bool `db:"verified" json:"verified"`
}

// StatusField names one of the StatusFlags.
type StatusField string

// Toggleable status fields.
const (
	StatusActive   StatusField = "active"
	StatusFeatured StatusField = "featured"
	StatusPremium  StatusField = "premium"
	StatusVerified StatusField = "verified"
)

// ParseStatusField validates a status field name (case-insensitive).
func ParseStatusField(s string) (StatusField, error) {
	switch f := StatusField(strings.ToLower(strings.TrimSpace(s))); f {
	case StatusActive, StatusFeatured, StatusPremium, StatusVerified:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status field %q: %w", s, ErrInvalidArgument)
	}
}

// Provider is a listed local business.
type Provider struct {
	ID           uuid.UUID `db:"id" json:"id"`
	BusinessName string    `db:"business_name" json:"business_name"`
	Slug         string    `db:"slug" json:"slug"`
	Description  string    `db:"description" json:"description"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	Website      string    `db:"website" json:"website"`
	Address      string    `db:"address" json:"address"`
	City         string    `db:"city" json:"city"`

	StatusFlags `json:"status"`

	// SortOrder is the primary ranking key. Lower sorts first; it is not
	// guaranteed to be unique.
	SortOrder int `db:"sort_order" json:"sort_order"`

	// Internal review aggregates.
	Rating      *float64 `db:"rating" json:"rating"`
	ReviewCount *int     `db:"review_count" json:"review_count"`

	// Place-data fields, stored as opaque inputs.
	GoogleRating      *float64 `db:"google_rating" json:"google_rating"`
	GoogleReviewCount *int     `db:"google_review_count" json:"google_review_count"`
	GooglePlacesID    *string  `db:"google_places_id" json:"google_places_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// CategoryIDs lists the categories of the provider's services.
	// Populated by store list methods.
	CategoryIDs []uuid.UUID `db:"-" json:"category_ids"`
}

// ProviderService links a provider to a category it serves.
type ProviderService struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProviderID  uuid.UUID `db:"provider_id" json:"provider_id"`
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Price       *float64  `db:"price" json:"price"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProviderPatch is a partial update. Nil fields are left untouched.
type ProviderPatch struct {
	SortOrder *int
	Active    *bool
	Featured  *bool
	Premium   *bool
	Verified  *bool
}

// Empty reports whether the patch changes nothing.
func (p ProviderPatch) Empty() bool {
	return p.SortOrder == nil && p.Active == nil && p.Featured == nil &&
		p.Premium == nil && p.Verified == nil
}

// StatusPatch builds a patch that sets a single status field.
func StatusPatch(field StatusField, value bool) ProviderPatch {
	var p ProviderPatch
	switch field {
	case StatusActive:
		p.Active = &value
	case StatusFeatured:
		p.Featured = &value
	case StatusPremium:
		p.Premium = &value
	case StatusVerified:
		p.Verified = &value
	}
	return p
}

// MaxSortOrder is the largest value the sort_order columns hold.
const MaxSortOrder = math.MaxInt32

// SortOrderPatch builds a patch that sets only the sort order.
func SortOrderPatch(order int) ProviderPatch {
	return ProviderPatch{SortOrder: &order}
}

// Apply copies the non-nil fields of the patch onto p.
func (p *Provider) Apply(patch ProviderPatch) {
	if patch.SortOrder != nil {
		p.SortOrder = *patch.SortOrder
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Premium != nil {
		p.Premium = *patch.Premium
	}
	if patch.Verified != nil {
		p.Verified = *patch.Verified
	}
}

// ProviderUpdate pairs a provider ID with the patch to apply to it.
type ProviderUpdate struct {
	ID    uuid.UUID
	Patch ProviderPatch
}
