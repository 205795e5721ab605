package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/application/onboarding"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ onboarding.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con repositorios cuyas escrituras se confirman juntas
// solo si fn no devuelve error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa las transacciones y aplica los cambios pendientes en commit.
func (r *TxRunner) Run(ctx context.Context, fn func(vendors repository.VendorRepository, audits repository.AuditLogRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	tx := &txState{vendors: make(map[uuid.UUID]*entity.Vendor)}
	if err := fn(&VendorRepo{s: r.s, tx: tx}, &AuditLogRepo{s: r.s, tx: tx}); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range tx.vendors {
		r.s.vendors[id] = v
	}
	r.s.audits = append(r.s.audits, tx.audits...)
	return nil
}
