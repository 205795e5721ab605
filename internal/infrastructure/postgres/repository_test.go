package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/internal/domain/repository"
	"github.com/jhoicas/vendor-admin-api/internal/infrastructure/postgres"
)

var (
	vendorCols = []string{"id", "name", "phone", "id_document_url", "status", "rejection_reason", "created_at", "updated_at"}
	created    = time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestAdminRepo_Create_EmailDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAdminRepository(mock)
	admin := &entity.Admin{ID: uuid.New(), Email: "a@x.com", PasswordHash: "h", Role: entity.RoleAdmin, CreatedAt: created}

	mock.ExpectExec(q("INSERT INTO admins")).
		WithArgs(admin.ID, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "admins_email_key"})

	err := repo.Create(context.Background(), admin)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestAdminRepo_FindByEmail(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAdminRepository(mock)
	id := uuid.New()

	mock.ExpectQuery(q("FROM admins WHERE email = $1")).
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow(id, "a@x.com", "$argon2id$...", "admin", created))
	mock.ExpectQuery(q("FROM admins WHERE email = $1")).
		WithArgs("nadie@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "admin", got.Role)

	got, err = repo.FindByEmail(context.Background(), "nadie@x.com")
	require.NoError(t, err)
	assert.Nil(t, got, "sin fila devuelve (nil, nil)")
}

func TestAdminRepo_FindByID_ErrorDeBD(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(q("FROM admins WHERE id = $1")).WithArgs(id).WillReturnError(errors.New("conn reset"))

	_, err := postgres.NewAdminRepository(mock).FindByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestVendorRepo_Create_TelefonoDuplicado(t *testing.T) {
	mock := newMock(t)
	v := &entity.Vendor{ID: uuid.New(), Name: "Mama Mboga", Phone: "+254712345678", IDDocumentURL: "documents/a.pdf", Status: entity.VendorStatusPending, CreatedAt: created, UpdatedAt: created}

	mock.ExpectExec(q("INSERT INTO vendors")).
		WithArgs(v.ID, v.Name, v.Phone, v.IDDocumentURL, "pending", v.RejectionReason, v.CreatedAt, v.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "vendors_phone_key"})

	err := postgres.NewVendorRepository(mock).Create(context.Background(), v)
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists)
}

func TestUniqueViolation_OtraRestriccion_NoEsDuplicado(t *testing.T) {
	mock := newMock(t)
	admin := &entity.Admin{ID: uuid.New(), Email: "a@x.com", PasswordHash: "h", Role: entity.RoleAdmin, CreatedAt: created}
	mock.ExpectExec(q("INSERT INTO admins")).
		WithArgs(admin.ID, admin.Email, admin.PasswordHash, admin.Role, admin.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "admins_pkey"})

	err := postgres.NewAdminRepository(mock).Create(context.Background(), admin)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	v := &entity.Vendor{ID: uuid.New(), Name: "Mama Mboga", Phone: "+254712345678", IDDocumentURL: "documents/a.pdf", Status: entity.VendorStatusPending, CreatedAt: created, UpdatedAt: created}
	mock.ExpectExec(q("INSERT INTO vendors")).
		WithArgs(v.ID, v.Name, v.Phone, v.IDDocumentURL, "pending", v.RejectionReason, v.CreatedAt, v.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "vendors_pkey"})

	err = postgres.NewVendorRepository(mock).Create(context.Background(), v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPhoneAlreadyExists)
}

func TestVendorRepo_GetByID_ConMotivo(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(q("FROM vendors WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(vendorCols).
			AddRow(id, "Mama Mboga", "+254712345678", "documents/a.pdf", "rejected", "ilegible", created, created.Add(time.Hour)))

	v, err := postgres.NewVendorRepository(mock).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, entity.VendorStatusRejected, v.Status)
	require.NotNil(t, v.RejectionReason)
	assert.Equal(t, "ilegible", *v.RejectionReason)
}

func TestVendorRepo_ListByStatus(t *testing.T) {
	mock := newMock(t)
	a, b := uuid.New(), uuid.New()
	pattern := "(?s)" + q("WHERE status = $1::vendor_status") + ".*" + q("ORDER BY created_at ASC")
	mock.ExpectQuery(pattern).
		WithArgs("pending", 10, 20).
		WillReturnRows(pgxmock.NewRows(vendorCols).
			AddRow(a, "Uno", "+254700000001", "documents/1.pdf", "pending", nil, created, created).
			AddRow(b, "Dos", "+254700000002", "documents/2.pdf", "pending", nil, created.Add(time.Minute), created.Add(time.Minute)))

	list, err := postgres.NewVendorRepository(mock).ListByStatus(context.Background(), entity.VendorStatusPending, 10, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0].ID)
	assert.Nil(t, list[0].RejectionReason)
	assert.Equal(t, b, list[1].ID)
}

func TestVendorRepo_ListByStatus_OffsetNegativo(t *testing.T) {
	mock := newMock(t)

	_, err := postgres.NewVendorRepository(mock).ListByStatus(context.Background(), entity.VendorStatusPending, 10, -100)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestVendorRepo_CountByStatus(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("SELECT count(*) FROM vendors")).
		WithArgs("pending").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	n, err := postgres.NewVendorRepository(mock).CountByStatus(context.Background(), entity.VendorStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestVendorRepo_UpdateStatus_SinFilas(t *testing.T) {
	mock := newMock(t)
	reason := "x"
	v := &entity.Vendor{ID: uuid.New(), Status: entity.VendorStatusRejected, RejectionReason: &reason, UpdatedAt: created}
	mock.ExpectExec(q("UPDATE vendors SET status")).
		WithArgs(v.ID, "rejected", v.RejectionReason, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := postgres.NewVendorRepository(mock).UpdateStatus(context.Background(), v)
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

func TestAuditLogRepo_AppendYListado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAuditLogRepository(mock)
	reason := "ilegible"
	entry := &entity.AuditLog{
		ID: uuid.New(), EntityType: entity.AuditEntityVendor, EntityID: uuid.New(),
		ActionType: entity.AuditActionStatusChange, AdminID: uuid.New(),
		Details:   entity.AuditDetails{OldStatus: entity.VendorStatusPending, NewStatus: entity.VendorStatusRejected, Reason: &reason},
		CreatedAt: created,
	}
	details, err := json.Marshal(entry.Details)
	require.NoError(t, err)

	mock.ExpectExec(q("INSERT INTO audit_logs")).
		WithArgs(entry.ID, entry.EntityType, entry.EntityID, entry.ActionType, entry.AdminID, details, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(q("FROM audit_logs WHERE entity_type = $1 AND entity_id = $2")).
		WithArgs("vendor", entry.EntityID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "entity_type", "entity_id", "action_type", "admin_id", "details", "created_at"}).
			AddRow(entry.ID, "vendor", entry.EntityID, "status_change", entry.AdminID, details, created))

	require.NoError(t, repo.Append(context.Background(), entry))

	list, err := repo.ListByEntity(context.Background(), "vendor", entry.EntityID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.VendorStatusPending, list[0].Details.OldStatus)
	assert.Equal(t, entity.VendorStatusRejected, list[0].Details.NewStatus)
	require.NotNil(t, list[0].Details.Reason)
	assert.Equal(t, "ilegible", *list[0].Details.Reason)
}

func TestTxRunner_CommitYRollback(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WithArgs(id).
		WillReturnRows(pgxmock.NewRows(vendorCols).
			AddRow(id, "Mama Mboga", "+254712345678", "documents/a.pdf", "pending", nil, created, created))
	mock.ExpectExec(q("UPDATE vendors SET status")).
		WithArgs(id, "approved", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q("INSERT INTO audit_logs")).
		WithArgs(pgxmock.AnyArg(), "vendor", id, "status_change", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := runner.Run(context.Background(), func(vendors repository.VendorRepository, audits repository.AuditLogRepository) error {
		v, err := vendors.GetForUpdate(context.Background(), id)
		if err != nil {
			return err
		}
		v.ApplyStatus(entity.VendorStatusApproved, nil, created.Add(time.Hour))
		if err := vendors.UpdateStatus(context.Background(), v); err != nil {
			return err
		}
		return audits.Append(context.Background(), &entity.AuditLog{
			ID: uuid.New(), EntityType: "vendor", EntityID: id, ActionType: "status_change", AdminID: uuid.New(),
			Details: entity.AuditDetails{OldStatus: entity.VendorStatusPending, NewStatus: entity.VendorStatusApproved},
		})
	})
	require.NoError(t, err)

	// el fallo de auditoría deshace el cambio de estado
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE vendors SET status")).
		WithArgs(id, "approved", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q("INSERT INTO audit_logs")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = runner.Run(context.Background(), func(vendors repository.VendorRepository, audits repository.AuditLogRepository) error {
		if err := vendors.UpdateStatus(context.Background(), &entity.Vendor{ID: id, Status: entity.VendorStatusApproved}); err != nil {
			return err
		}
		return audits.Append(context.Background(), &entity.AuditLog{ID: uuid.New()})
	})
	assert.ErrorContains(t, err, "disk full")
}

func TestTxRunner_BeginFalla(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := postgres.NewTxRunner(mock).Run(context.Background(), func(repository.VendorRepository, repository.AuditLogRepository) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
