// Package onboarding implementa el flujo de revisión de vendedores: solicitud,
// listado de pendientes, aprobación o rechazo con auditoría.
package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

// DefaultPhoneRegion región usada para teléfonos sin prefijo internacional.
const DefaultPhoneRegion = "KE"

// VendorUseCase casos de uso del flujo de vendedores.
type VendorUseCase struct {
	vendors     repository.VendorRepository
	audits      repository.AuditLogRepository
	tx          TxRunner
	recorder    TransitionRecorder
	phoneRegion string
	now         func() time.Time
}

// Option ajusta el VendorUseCase.
type Option func(*VendorUseCase)

// WithClock fija el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *VendorUseCase) { uc.now = now }
}

// WithPhoneRegion fija la región por defecto de los teléfonos (ISO 3166-1 alpha-2).
func WithPhoneRegion(region string) Option {
	return func(uc *VendorUseCase) {
		if region != "" {
			uc.phoneRegion = region
		}
	}
}

// WithTransitionRecorder registra las transiciones confirmadas.
func WithTransitionRecorder(r TransitionRecorder) Option {
	return func(uc *VendorUseCase) { uc.recorder = r }
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(vendors repository.VendorRepository, audits repository.AuditLogRepository, tx TxRunner, opts ...Option) *VendorUseCase {
	uc := &VendorUseCase{
		vendors:     vendors,
		audits:      audits,
		tx:          tx,
		phoneRegion: DefaultPhoneRegion,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Apply registra una solicitud nueva en estado pending. El teléfono se guarda en E.164.
func (uc *VendorUseCase) Apply(ctx context.Context, in dto.ApplyVendorRequest) (*dto.VendorResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	phone, err := uc.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	v := &entity.Vendor{
		ID:            uuid.New(),
		Name:          in.Name,
		Phone:         phone,
		IDDocumentURL: in.IDDocumentURL,
		Status:        entity.VendorStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.vendors.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVendorResponse(v), nil
}

func (uc *VendorUseCase) normalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, uc.phoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return "", domain.NewValidationError("phone: invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// ListPending página de pendientes, más antiguos primero. Total cuenta todos los pendientes.
func (uc *VendorUseCase) ListPending(ctx context.Context, page, perPage int) (*dto.PendingVendorsResponse, error) {
	if page < 1 || perPage < 1 || perPage > dto.MaxPerPage {
		return nil, domain.ErrInvalidPagination
	}
	total, err := uc.vendors.CountByStatus(ctx, entity.VendorStatusPending)
	if err != nil {
		return nil, err
	}
	out := &dto.PendingVendorsResponse{
		Vendors: []dto.VendorResponse{},
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	// páginas más allá del total (incluidas las que desbordarían el offset) salen vacías
	if page-1 >= (total+perPage-1)/perPage {
		return out, nil
	}
	list, err := uc.vendors.ListByStatus(ctx, entity.VendorStatusPending, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	for _, v := range list {
		out.Vendors = append(out.Vendors, *toVendorResponse(v))
	}
	return out, nil
}

// GetByID devuelve un vendedor o ErrVendorNotFound.
func (uc *VendorUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error) {
	v, err := uc.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrVendorNotFound
	}
	return toVendorResponse(v), nil
}

// UpdateStatus aplica una transición y agrega su entrada de auditoría en la misma transacción.
// Orden de validación: motivo de rechazo, existencia del vendedor, transición permitida.
func (uc *VendorUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, in dto.UpdateVendorStatusRequest, actor uuid.UUID) (*dto.VendorResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	next, err := entity.ParseVendorStatus(in.Status)
	if err != nil {
		return nil, domain.NewValidationError("invalid status")
	}
	reason := in.EffectiveReason()
	if next == entity.VendorStatusRejected && reason == nil {
		return nil, domain.ErrRejectionReason
	}

	var (
		updated *entity.Vendor
		prev    entity.VendorStatus
	)
	err = uc.tx.Run(ctx, func(vendors repository.VendorRepository, audits repository.AuditLogRepository) error {
		v, err := vendors.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrVendorNotFound
		}
		if !v.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}

		now := uc.now().UTC()
		prev = v.Status
		v.ApplyStatus(next, reason, now)
		if err := vendors.UpdateStatus(ctx, v); err != nil {
			return err
		}
		entry := &entity.AuditLog{
			ID:         uuid.New(),
			EntityType: entity.AuditEntityVendor,
			EntityID:   v.ID,
			ActionType: entity.AuditActionStatusChange,
			AdminID:    actor,
			Details: entity.AuditDetails{
				OldStatus: prev,
				NewStatus: next,
				Reason:    v.RejectionReason,
			},
			CreatedAt: now,
		}
		if err := audits.Append(ctx, entry); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.recorder != nil {
		uc.recorder.RecordTransition(prev.String(), next.String())
	}
	return toVendorResponse(updated), nil
}

// AuditTrail historial de cambios de un vendedor, más reciente primero.
func (uc *VendorUseCase) AuditTrail(ctx context.Context, id uuid.UUID) (*dto.AuditTrailResponse, error) {
	v, err := uc.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrVendorNotFound
	}
	entries, err := uc.audits.ListByEntity(ctx, entity.AuditEntityVendor, id)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditTrailResponse{Entries: make([]dto.AuditLogResponse, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.AuditLogResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID.String(),
			ActionType: e.ActionType,
			AdminID:    e.AdminID.String(),
			OldStatus:  e.Details.OldStatus.String(),
			NewStatus:  e.Details.NewStatus.String(),
			Reason:     e.Details.Reason,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	if v == nil {
		return nil
	}
	return &dto.VendorResponse{
		ID:              v.ID.String(),
		Name:            v.Name,
		Phone:           v.Phone,
		IDDocumentURL:   v.IDDocumentURL,
		Status:          v.Status.String(),
		RejectionReason: v.RejectionReason,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}
