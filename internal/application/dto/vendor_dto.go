package dto

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Límites de paginación del listado de pendientes.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// ApplyVendorRequest solicitud pública de alta de vendedor.
type ApplyVendorRequest struct {
	Name          string `json:"name" example:"Mama Mboga"`
	Phone         string `json:"phone" example:"+254712345678"`
	IDDocumentURL string `json:"id_document_url" example:"documents/3f1c.pdf"`
}

// Validate reglas de la solicitud.
func (r ApplyVendorRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Match(phonePattern).Error("must be 9 to 15 digits, optionally prefixed with +")),
		validation.Field(&r.IDDocumentURL, validation.Required, validation.Length(1, 500)),
	))
}

// UpdateVendorStatusRequest cuerpo del PATCH. Reason es alias de RejectionReason.
type UpdateVendorStatusRequest struct {
	Status          string  `json:"status" example:"rejected"`
	RejectionReason *string `json:"rejection_reason,omitempty" example:"documento ilegible"`
	Reason          *string `json:"reason,omitempty"`
}

// Validate solo exige status; la regla del motivo la aplica el flujo de vendedores.
func (r UpdateVendorStatusRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	))
}

// EffectiveReason devuelve el motivo recortado o nil si está vacío.
// rejection_reason tiene prioridad sobre reason.
func (r UpdateVendorStatusRequest) EffectiveReason() *string {
	for _, p := range []*string{r.RejectionReason, r.Reason} {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			return &s
		}
	}
	return nil
}

// VendorResponse salida de un vendedor.
type VendorResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	IDDocumentURL   string    `json:"id_document_url"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PendingVendorsResponse página de vendedores pendientes. Total cuenta todos los pendientes.
type PendingVendorsResponse struct {
	Vendors []VendorResponse `json:"vendors"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// AuditLogResponse entrada del historial de un vendedor.
type AuditLogResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ActionType string    `json:"action_type"`
	AdminID    string    `json:"admin_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	Reason     *string   `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditTrailResponse historial completo, más reciente primero.
type AuditTrailResponse struct {
	Entries []AuditLogResponse `json:"entries"`
}
