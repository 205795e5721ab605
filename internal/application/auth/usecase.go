package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

// PasswordHasher puerto del verificador de credenciales (pkg/password).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// TokenIssuer puerto de emisión de tokens (pkg/jwt).
type TokenIssuer interface {
	Issue(subject, role string, now time.Time) (string, error)
}

// AuthUseCase casos de uso del directorio de administradores: registro, login y perfil.
type AuthUseCase struct {
	admins repository.AdminRepository
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. now puede ser nil (reloj del sistema).
func NewAuthUseCase(admins repository.AdminRepository, hasher PasswordHasher, tokens TokenIssuer, now func() time.Time) *AuthUseCase {
	if now == nil {
		now = time.Now
	}
	return &AuthUseCase{admins: admins, hasher: hasher, tokens: tokens, now: now}
}

// Register crea un administrador con rol admin. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AdminResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := in.Email

	existing, err := uc.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := &entity.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return toAdminResponse(admin), nil
}

// Login verifica email/password y emite un token. Email desconocido y contraseña
// incorrecta producen el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	admin, err := uc.admins.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := uc.hasher.Verify(in.Password, admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password of admin %s: %w", admin.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(admin.ID.String(), admin.Role, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Admin: *toAdminResponse(admin),
	}, nil
}

// Me devuelve el administrador autenticado. ErrAdminNotFound si se borró después de emitir el token.
func (uc *AuthUseCase) Me(ctx context.Context, id uuid.UUID) (*dto.AdminResponse, error) {
	admin, err := uc.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrAdminNotFound
	}
	return toAdminResponse(admin), nil
}

// normalizeEmail un Caser no es seguro entre goroutines, se crea uno por llamada.
func normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func toAdminResponse(a *entity.Admin) *dto.AdminResponse {
	if a == nil {
		return nil
	}
	return &dto.AdminResponse{
		ID:    a.ID.String(),
		Email: a.Email,
		Role:  a.Role,
	}
}
