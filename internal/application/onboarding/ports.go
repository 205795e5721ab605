package onboarding

import (
	"context"

	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no se confirma nada: el cambio de estado y su entrada de auditoría
// se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(vendors repository.VendorRepository, audits repository.AuditLogRepository) error) error
}

// TransitionRecorder recibe cada transición confirmada (métricas).
type TransitionRecorder interface {
	RecordTransition(from, to string)
}
