// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// audit_log.go records ranking mutations (moves, priority assignments,
// badge toggles) so operators can see who was promoted and when.
package store

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicedir/internal/models"
)

// AuditLogStore handles ranking audit log operations.
type AuditLogStore struct {
	db *sqlx.DB
}

// NewAuditLogStore creates a new AuditLogStore.
func NewAuditLogStore(db *sqlx.DB) *AuditLogStore {
	return &AuditLogStore{db: db}
}

// Log records a ranking mutation. Failures are logged, never returned.
func (s *AuditLogStore) Log(ctx context.Context, providerID uuid.UUID, action models.AuditAction, detail string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ranking_audit_log (provider_id, action, detail)
		VALUES ($1, $2, $3)
	`, providerID, action, detail)
	if err != nil {
		slog.Warn("failed to write ranking audit entry",
			"provider_id", providerID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("ranking audit entry written", "provider_id", providerID, "action", action)
}

// Recent returns the newest audit entries, at most limit of them.
func (s *AuditLogStore) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	entries := []models.AuditEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, provider_id, action, detail, created_at
		FROM ranking_audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, failure("query ranking audit log", err)
	}
	return entries, nil
}
