package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para Vendor.
type VendorRepository interface {
	// Create falla con domain.ErrPhoneAlreadyExists si el teléfono ya está registrado.
	Create(ctx context.Context, vendor *entity.Vendor) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	// UpdateStatus persiste status, rejection_reason y updated_at.
	UpdateStatus(ctx context.Context, vendor *entity.Vendor) error
	// ListByStatus ordena por created_at ascendente.
	ListByStatus(ctx context.Context, status entity.VendorStatus, limit, offset int) ([]*entity.Vendor, error)
	CountByStatus(ctx context.Context, status entity.VendorStatus) (int, error)
}
