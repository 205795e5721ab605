package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendor-admin-api/internal/application/auth"
	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

var errInvalidBody = domain.NewValidationError("invalid request body")

// AuthHandler maneja registro, login y perfil del administrador.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password"
// @Success      201   {object}  dto.AdminResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Administrador autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AdminResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return errMissingToken
	}
	out, err := h.uc.Me(c.UserContext(), identity.AdminID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
