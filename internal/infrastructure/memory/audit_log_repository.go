package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo AuditLogRepository en memoria (append-only).
type AuditLogRepo struct {
	s  *Store
	tx *txState
}

// NewAuditLogRepository construye el repositorio sobre el Store.
func NewAuditLogRepository(s *Store) *AuditLogRepo {
	return &AuditLogRepo{s: s}
}

// Append agrega una entrada.
func (r *AuditLogRepo) Append(_ context.Context, entry *entity.AuditLog) error {
	if r.tx != nil {
		r.tx.audits = append(r.tx.audits, cloneAudit(entry))
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, cloneAudit(entry))
	return nil
}

// ListByEntity entradas de la entidad, más recientes primero.
func (r *AuditLogRepo) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	r.s.mu.RLock()
	all := append([]*entity.AuditLog{}, r.s.audits...)
	r.s.mu.RUnlock()
	if r.tx != nil {
		all = append(all, r.tx.audits...)
	}

	out := make([]*entity.AuditLog, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].EntityType == entityType && all[i].EntityID == entityID {
			out = append(out, cloneAudit(all[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Len número total de entradas confirmadas.
func (r *AuditLogRepo) Len() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.audits)
}
