// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package position applies rank-changing administrative writes to
// providers: neighbour swaps, absolute priority assignment, and status
// badge toggles.
package position

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"servicedir/internal/models"
	"servicedir/internal/ranking"
)

// Store is the persistence the mutator writes through.
//
// UpdateProvider returns models.ErrNotFound when no row has the given ID.
// UpdateRanked runs fn inside one transaction: it passes fn every provider
// (rows locked against concurrent writers) and applies the returned
// updates before committing. Any error from fn or from a write rolls the
// whole transaction back.
type Store interface {
	UpdateProvider(ctx context.Context, id uuid.UUID, patch models.ProviderPatch) error
	UpdateRanked(ctx context.Context, fn func(ranked []models.Provider) ([]models.ProviderUpdate, error)) error
}

// AuditLog records successful mutations. Logging is best-effort and must
// not fail the mutation.
type AuditLog interface {
	Log(ctx context.Context, providerID uuid.UUID, action models.AuditAction, detail string)
}

// Mutator changes provider positions in the global priority ranking.
type Mutator struct {
	store Store
	audit AuditLog
}

// NewMutator creates a Mutator. audit may be nil.
func NewMutator(store Store, audit AuditLog) *Mutator {
	return &Mutator{store: store, audit: audit}
}

// MoveUp swaps the sort order of the provider with its immediate
// predecessor in priority order. It is a no-op for the first provider.
func (m *Mutator) MoveUp(ctx context.Context, id uuid.UUID) error {
	return m.move(ctx, id, true)
}

// MoveDown swaps the sort order of the provider with its immediate
// successor in priority order. It is a no-op for the last provider.
func (m *Mutator) MoveDown(ctx context.Context, id uuid.UUID) error {
	return m.move(ctx, id, false)
}

func (m *Mutator) move(ctx context.Context, id uuid.UUID, up bool) error {
	action := models.AuditMoveDown
	if up {
		action = models.AuditMoveUp
	}

	var swapped *models.Provider
	var from, to int
	var tied bool
	err := m.store.UpdateRanked(ctx, func(ranked []models.Provider) ([]models.ProviderUpdate, error) {
		prev, self, next := ranking.Neighbors(ranked, id)
		if self == nil {
			return nil, fmt.Errorf("provider %s: %w", id, models.ErrNotFound)
		}
		other := next
		if up {
			other = prev
		}
		if other == nil {
			return nil, nil
		}
		if other.SortOrder == self.SortOrder {
			// Exchanging equal values changes nothing.
			tied = true
			return nil, nil
		}

		swapped = other
		from, to = self.SortOrder, other.SortOrder
		return []models.ProviderUpdate{
			{ID: self.ID, Patch: models.SortOrderPatch(other.SortOrder)},
			{ID: other.ID, Patch: models.SortOrderPatch(self.SortOrder)},
		}, nil
	})
	if err != nil {
		return fmt.Errorf("%s provider: %w", action, err)
	}

	if tied {
		slog.Debug("provider shares its sort order with the neighbour, order unchanged", "provider_id", id, "action", action)
		return nil
	}
	if swapped == nil {
		slog.Debug("provider already at boundary", "provider_id", id, "action", action)
		return nil
	}

	slog.Info("provider moved",
		"provider_id", id,
		"action", action,
		"swapped_with", swapped.ID,
		"from", from,
		"to", to,
	)
	m.log(ctx, id, action, fmt.Sprintf("sort_order %d -> %d, swapped with %s", from, to, swapped.ID))
	return nil
}

// SetPriority assigns an absolute sort order. No other provider is
// renumbered, so two providers may end up sharing a value; the comparator
// breaks such ties at read time.
func (m *Mutator) SetPriority(ctx context.Context, id uuid.UUID, order int) error {
	if order < 1 || order > models.MaxSortOrder {
		return fmt.Errorf("sort order %d must be between 1 and %d: %w", order, models.MaxSortOrder, models.ErrInvalidArgument)
	}

	if err := m.store.UpdateProvider(ctx, id, models.SortOrderPatch(order)); err != nil {
		return fmt.Errorf("set provider priority: %w", err)
	}

	slog.Info("provider priority set", "provider_id", id, "sort_order", order)
	m.log(ctx, id, models.AuditSetPriority, fmt.Sprintf("sort_order = %d", order))
	return nil
}

// PromoteToTop is SetPriority(id, 1).
func (m *Mutator) PromoteToTop(ctx context.Context, id uuid.UUID) error {
	return m.SetPriority(ctx, id, 1)
}

// PromoteToTopN is SetPriority(id, n). It does not shift the providers
// already holding positions 1..n.
func (m *Mutator) PromoteToTopN(ctx context.Context, id uuid.UUID, n int) error {
	return m.SetPriority(ctx, id, n)
}

// SetStatus toggles one status badge. It never touches the sort order.
func (m *Mutator) SetStatus(ctx context.Context, id uuid.UUID, field models.StatusField, value bool) error {
	field, err := models.ParseStatusField(string(field))
	if err != nil {
		return err
	}

	if err := m.store.UpdateProvider(ctx, id, models.StatusPatch(field, value)); err != nil {
		return fmt.Errorf("set provider status: %w", err)
	}

	slog.Info("provider status set", "provider_id", id, "field", field, "value", value)
	m.log(ctx, id, models.AuditSetStatus, fmt.Sprintf("%s = %t", field, value))
	return nil
}

func (m *Mutator) log(ctx context.Context, id uuid.UUID, action models.AuditAction, detail string) {
	if m.audit != nil {
		m.audit.Log(ctx, id, action, detail)
	}
}
