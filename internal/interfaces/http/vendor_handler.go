package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/application/onboarding"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

// VendorHandler solicitudes de vendedores y su revisión.
type VendorHandler struct {
	uc *onboarding.VendorUseCase
}

// NewVendorHandler construye el handler.
func NewVendorHandler(uc *onboarding.VendorUseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Apply godoc
// @Summary      Solicitar alta como vendedor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyVendorRequest  true  "name, phone, id_document_url"
// @Success      201   {object}  dto.VendorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vendors [post]
func (h *VendorHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyVendorRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Apply(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending godoc
// @Summary      Vendedores pendientes (más antiguos primero)
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int  false  "página (>= 1)"         default(1)
// @Param        per_page  query  int  false  "tamaño de página (1-100)" default(20)
// @Success      200  {object}  dto.PendingVendorsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/admin/vendors/pending [get]
func (h *VendorHandler) ListPending(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", dto.DefaultPage)
	if err != nil {
		return err
	}
	perPage, err := queryInt(c, "per_page", dto.DefaultPerPage)
	if err != nil {
		return err
	}
	out, err := h.uc.ListPending(c.UserContext(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener vendedor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del vendedor"
// @Success      200  {object}  dto.VendorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/vendors/{id} [get]
func (h *VendorHandler) GetByID(c *fiber.Ctx) error {
	id, err := vendorID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Aprobar o rechazar vendedor
// @Description  Rejected exige rejection_reason (o su alias reason). Approved y Rejected son finales.
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                         true  "ID del vendedor"
// @Param        body  body  dto.UpdateVendorStatusRequest  true  "status, rejection_reason"
// @Success      200   {object}  dto.VendorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/vendors/{id} [patch]
func (h *VendorHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := vendorID(c)
	if err != nil {
		return err
	}
	identity, ok := GetIdentity(c)
	if !ok {
		return errMissingToken
	}
	var in dto.UpdateVendorStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in, identity.AdminID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Historial de cambios de estado
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del vendedor"
// @Success      200  {object}  dto.AuditTrailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/vendors/{id}/audit [get]
func (h *VendorHandler) AuditTrail(c *fiber.Ctx) error {
	id, err := vendorID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.AuditTrail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// vendorID un id que no es UUID no puede existir: 404.
func vendorID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrVendorNotFound
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidPagination
	}
	return n, nil
}
