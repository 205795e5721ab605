package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository (usable con pool o tx). Solo INSERT y SELECT.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserta una entrada; details se guarda como JSONB.
func (r *AuditLogRepo) Append(ctx context.Context, e *entity.AuditLog) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	query := `
		INSERT INTO audit_logs (id, entity_type, entity_id, action_type, admin_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.EntityType, e.EntityID, e.ActionType, e.AdminID, details, e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity entradas de una entidad, más recientes primero.
func (r *AuditLogRepo) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action_type, admin_id, details, created_at
		FROM audit_logs WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditLog, 0)
	for rows.Next() {
		var (
			e       entity.AuditLog
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.ActionType, &e.AdminID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("decode audit details %s: %w", e.ID, err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
