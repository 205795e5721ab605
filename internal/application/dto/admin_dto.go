package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MinPasswordLength longitud mínima de la contraseña en el registro.
const MinPasswordLength = 8

// RegisterRequest entrada para registro de un administrador.
type RegisterRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw123456"`
}

// Validate reglas del registro.
func (r RegisterRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 128)),
	))
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw123456"`
}

// Validate solo exige presencia: el resto lo decide la verificación de credenciales.
func (r LoginRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

// AdminResponse salida de un administrador (sin password_hash).
type AdminResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse token firmado + datos del administrador.
type LoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}
