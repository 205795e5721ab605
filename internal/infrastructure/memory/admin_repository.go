package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo AdminRepository en memoria.
type AdminRepo struct {
	s *Store
}

// NewAdminRepository construye el repositorio sobre el Store.
func NewAdminRepository(s *Store) *AdminRepo {
	return &AdminRepo{s: s}
}

// Create persiste un nuevo administrador.
func (r *AdminRepo) Create(_ context.Context, admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

// FindByEmail busca por email.
func (r *AdminRepo) FindByEmail(_ context.Context, email string) (*entity.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.admins {
		if a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, nil
}

// FindByID busca por ID.
func (r *AdminRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if a, ok := r.s.admins[id]; ok {
		return cloneAdmin(a), nil
	}
	return nil, nil
}

// Delete elimina un administrador. No forma parte del puerto; los tests lo usan para
// simular una cuenta borrada después de emitir su token.
func (r *AdminRepo) Delete(id uuid.UUID) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.admins, id)
}
