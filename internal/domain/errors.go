package domain

import "errors"

// Tipos de error de dominio (sin dependencias externas). La capa HTTP traduce cada tipo
// a un código de estado; cualquier otro error se considera interno.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Errores de negocio con mensaje público fijo.
var (
	ErrEmailAlreadyExists = NewValidationError("email already in use")
	ErrPhoneAlreadyExists = NewValidationError("phone already registered")
	ErrInvalidCredentials = NewAuthError("invalid email or password")
	ErrRejectionReason    = NewValidationError("rejection_reason_required")
	ErrInvalidTransition  = NewValidationError("invalid_status_transition")
	ErrInvalidPagination  = NewValidationError("invalid pagination parameters")
	ErrVendorNotFound     = NewNotFoundError("vendor not found")
	ErrAdminNotFound      = NewNotFoundError("admin not found")
)

// Error lleva el tipo (uno de los sentinels de arriba) y un mensaje apto para el cliente.
// Err, si existe, es la causa y nunca se muestra fuera del servidor.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is(err, ErrNotFound) y también llegar a la causa.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewAuthError credenciales o token inválidos (401).
func NewAuthError(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// NewForbiddenError identidad válida sin permiso para la operación (403).
func NewForbiddenError(msg string) *Error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// NewValidationError entrada malformada o regla de negocio violada (400).
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

// NewNotFoundError entidad inexistente (404).
func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// PublicMessage devuelve el mensaje público de un error de dominio, o "" si no lo es.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
