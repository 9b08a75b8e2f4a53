package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names a rank- or badge-changing administrative write.
type AuditAction string

const (
	AuditMoveUp      AuditAction = "move_up"
	AuditMoveDown    AuditAction = "move_down"
	AuditSetPriority AuditAction = "set_priority"
	AuditSetStatus   AuditAction = "set_status"
)

// AuditEntry is one row of the ranking audit log.
type AuditEntry struct {
	ID         int64       `db:"id" json:"id"`
	ProviderID uuid.UUID   `db:"provider_id" json:"provider_id"`
	Action     AuditAction `db:"action" json:"action"`
	Detail     string      `db:"detail" json:"detail"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
