package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles válidos para Admin.
const (
	RoleAdmin = "admin"
)

// Admin representa una cuenta del personal que revisa solicitudes de vendedores.
type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // hash PHC, nunca sale de la frontera del servicio
	Role         string
	CreatedAt    time.Time
}

// Identity es la identidad verificada de la petición en curso, derivada de los claims del token.
// Vive solo durante una petición; nunca se persiste.
type Identity struct {
	AdminID uuid.UUID
	Role    string
}
