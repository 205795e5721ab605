package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
)

// AdminRepository define el puerto de persistencia para Admin (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay coincidencia.
type AdminRepository interface {
	// Create falla con domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, admin *entity.Admin) error
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
}
