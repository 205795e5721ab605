// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory para demos locales y en los tests de casos de uso y HTTP.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
)

// Store datos compartidos por los repositorios en memoria. Seguro para uso concurrente.
type Store struct {
	mu      sync.RWMutex
	admins  map[uuid.UUID]*entity.Admin
	vendors map[uuid.UUID]*entity.Vendor
	audits  []*entity.AuditLog

	// txMu serializa las transacciones; equivale al bloqueo de fila de GetForUpdate.
	txMu sync.Mutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		admins:  make(map[uuid.UUID]*entity.Admin),
		vendors: make(map[uuid.UUID]*entity.Vendor),
	}
}

// txState cambios pendientes de una transacción; se aplican al Store solo en commit.
type txState struct {
	vendors map[uuid.UUID]*entity.Vendor
	audits  []*entity.AuditLog
}

func cloneAdmin(a *entity.Admin) *entity.Admin {
	c := *a
	return &c
}

func cloneVendor(v *entity.Vendor) *entity.Vendor {
	c := *v
	if v.RejectionReason != nil {
		r := *v.RejectionReason
		c.RejectionReason = &r
	}
	return &c
}

func cloneAudit(a *entity.AuditLog) *entity.AuditLog {
	c := *a
	if a.Details.Reason != nil {
		r := *a.Details.Reason
		c.Details.Reason = &r
	}
	return &c
}
