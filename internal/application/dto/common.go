package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse cuerpo de /health y /health/ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// asValidationError convierte los errores de ozzo en un error de dominio 400
// conservando el detalle por campo ("email: must be a valid email address.").
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return domain.NewValidationError(errs.Error())
	}
	// errores internos de ozzo (regla mal construida) no son culpa del cliente
	return err
}
