package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

const vendorColumns = `id, name, phone, id_document_url, status::text, rejection_reason, created_at, updated_at`

// VendorRepo implementación de VendorRepository (usable con pool o tx).
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste una nueva solicitud.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, phone, id_document_url, status, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::vendor_status, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Name, v.Phone, v.IDDocumentURL, string(v.Status), v.RejectionReason, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "vendors_phone_key") {
			return domain.ErrPhoneAlreadyExists
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor por ID.
func (r *VendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	v, err := scanVendor(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetForUpdate obtiene el vendedor bloqueando la fila hasta el fin de la transacción.
func (r *VendorRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1 FOR UPDATE`
	v, err := scanVendor(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get vendor for update: %w", err)
	}
	return v, nil
}

// UpdateStatus persiste status, rejection_reason y updated_at.
func (r *VendorRepo) UpdateStatus(ctx context.Context, v *entity.Vendor) error {
	query := `
		UPDATE vendors SET status = $2::vendor_status, rejection_reason = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, v.ID, string(v.Status), v.RejectionReason, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// ListByStatus lista vendedores por estado, más antiguos primero.
func (r *VendorRepo) ListByStatus(ctx context.Context, status entity.VendorStatus, limit, offset int) ([]*entity.Vendor, error) {
	if limit < 0 || offset < 0 {
		return nil, domain.ErrInvalidPagination
	}
	query := `SELECT ` + vendorColumns + `
		FROM vendors WHERE status = $1::vendor_status
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Vendor, 0, limit)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// CountByStatus cuenta vendedores en el estado dado.
func (r *VendorRepo) CountByStatus(ctx context.Context, status entity.VendorStatus) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM vendors WHERE status = $1::vendor_status`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return n, nil
}

// scanVendor devuelve (nil, nil) si no hay fila.
func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var (
		v      entity.Vendor
		status string
		reason pgtype.Text
	)
	err := row.Scan(&v.ID, &v.Name, &v.Phone, &v.IDDocumentURL, &status, &reason, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	v.Status = entity.VendorStatus(status)
	if reason.Valid {
		r := reason.String
		v.RejectionReason = &r
	}
	return &v, nil
}
