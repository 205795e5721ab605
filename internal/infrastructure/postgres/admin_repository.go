package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

const adminColumns = `id, email, password_hash, role, created_at`

// AdminRepo implementación del puerto AdminRepository sobre PostgreSQL.
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador de persistencia para administradores.
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// Create persiste un nuevo administrador.
func (r *AdminRepo) Create(ctx context.Context, admin *entity.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, admin.ID, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "admins_email_key") {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// FindByEmail obtiene un administrador por email.
func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1 LIMIT 1`
	a, err := scanAdmin(r.q.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return a, nil
}

// FindByID obtiene un administrador por ID.
func (r *AdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	a, err := scanAdmin(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return a, nil
}

// scanAdmin devuelve (nil, nil) si no hay fila.
func scanAdmin(row pgx.Row) (*entity.Admin, error) {
	var a entity.Admin
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
