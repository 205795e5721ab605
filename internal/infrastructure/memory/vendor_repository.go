package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo VendorRepository en memoria. Con tx != nil las escrituras quedan pendientes
// hasta el commit del TxRunner.
type VendorRepo struct {
	s  *Store
	tx *txState
}

// NewVendorRepository construye el repositorio sobre el Store.
func NewVendorRepository(s *Store) *VendorRepo {
	return &VendorRepo{s: s}
}

// Create persiste una nueva solicitud.
func (r *VendorRepo) Create(_ context.Context, vendor *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.visible() {
		if v.Phone == vendor.Phone {
			return domain.ErrPhoneAlreadyExists
		}
	}
	r.put(vendor)
	return nil
}

// GetByID obtiene un vendedor por ID.
func (r *VendorRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if v, ok := r.visible()[id]; ok {
		return cloneVendor(v), nil
	}
	return nil, nil
}

// GetForUpdate igual que GetByID; el bloqueo lo da la serialización de transacciones.
func (r *VendorRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus persiste status, rejection_reason y updated_at.
func (r *VendorRepo) UpdateStatus(_ context.Context, vendor *entity.Vendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.visible()[vendor.ID]
	if !ok {
		return domain.ErrVendorNotFound
	}
	next := cloneVendor(cur)
	next.Status = vendor.Status
	next.RejectionReason = cloneVendor(vendor).RejectionReason
	next.UpdatedAt = vendor.UpdatedAt
	r.put(next)
	return nil
}

// ListByStatus lista por estado, más antiguos primero.
func (r *VendorRepo) ListByStatus(_ context.Context, status entity.VendorStatus, limit, offset int) ([]*entity.Vendor, error) {
	if limit < 0 || offset < 0 {
		return nil, domain.ErrInvalidPagination
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.byStatus(status)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	if offset >= len(matched) {
		return []*entity.Vendor{}, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]*entity.Vendor, 0, end-offset)
	for _, v := range matched[offset:end] {
		out = append(out, cloneVendor(v))
	}
	return out, nil
}

// CountByStatus cuenta vendedores en el estado dado.
func (r *VendorRepo) CountByStatus(_ context.Context, status entity.VendorStatus) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.byStatus(status)), nil
}

func (r *VendorRepo) byStatus(status entity.VendorStatus) []*entity.Vendor {
	var out []*entity.Vendor
	for _, v := range r.visible() {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

// visible devuelve la vista de la transacción (cambios pendientes sobre el Store). Requiere s.mu.
func (r *VendorRepo) visible() map[uuid.UUID]*entity.Vendor {
	if r.tx == nil || len(r.tx.vendors) == 0 {
		return r.s.vendors
	}
	merged := make(map[uuid.UUID]*entity.Vendor, len(r.s.vendors)+len(r.tx.vendors))
	for id, v := range r.s.vendors {
		merged[id] = v
	}
	for id, v := range r.tx.vendors {
		merged[id] = v
	}
	return merged
}

// put requiere s.mu en escritura.
func (r *VendorRepo) put(v *entity.Vendor) {
	if r.tx != nil {
		r.tx.vendors[v.ID] = cloneVendor(v)
		return
	}
	r.s.vendors[v.ID] = cloneVendor(v)
}
