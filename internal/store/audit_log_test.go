// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"servicedir/internal/models"
)

func TestAuditLogStoreLog(t *testing.T) {
	db := testDB(t)
	s := NewAuditLogStore(db)
	p := createTestProvider(t, db, "Audited", 1)

	// Log should not error (best-effort).
	s.Log(t.Context(), p.ID, models.AuditSetPriority, "sort_order = 1")

	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM ranking_audit_log WHERE provider_id = $1", p.ID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 audit entry, got %d", count)
	}
}

func TestAuditLogStoreRecent(t *testing.T) {
	db := testDB(t)
	s := NewAuditLogStore(db)
	p := createTestProvider(t, db, "Audited Twice", 1)

	s.Log(t.Context(), p.ID, models.AuditMoveUp, "first")
	s.Log(t.Context(), p.ID, models.AuditMoveDown, "second")

	entries, err := s.Recent(t.Context(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 entries, got %d", len(entries))
	}

	// Most recent should be first.
	if entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Error("expected entries ordered by created_at DESC")
	}
}
