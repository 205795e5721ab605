package entity

import (
	"time"

	"github.com/google/uuid"
)

// Valores de entity_type / action_type del registro de auditoría.
const (
	AuditEntityVendor       = "vendor"
	AuditActionStatusChange = "status_change"
)

// AuditDetails detalle de un cambio de estado.
type AuditDetails struct {
	OldStatus VendorStatus `json:"old_status"`
	NewStatus VendorStatus `json:"new_status"`
	Reason    *string      `json:"reason"`
}

// AuditLog entrada append-only; se crea una vez por transición y no se modifica.
type AuditLog struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	ActionType string
	AdminID    uuid.UUID
	Details    AuditDetails
	CreatedAt  time.Time
}
