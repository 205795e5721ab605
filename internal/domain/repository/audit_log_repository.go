package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
)

// AuditLogRepository registro append-only: no hay Update ni Delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	// ListByEntity devuelve las entradas de la entidad, más recientes primero.
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error)
}
