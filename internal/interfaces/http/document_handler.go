package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendor-admin-api/internal/application/document"
	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
)

// DocumentHandler recepción y consulta de documentos de identidad.
type DocumentHandler struct {
	intake  *document.Intake
	timeout time.Duration
}

// NewDocumentHandler timeout acota la lectura del cuerpo; 0 desactiva el límite.
func NewDocumentHandler(intake *document.Intake, timeout time.Duration) *DocumentHandler {
	return &DocumentHandler{intake: intake, timeout: timeout}
}

// Upload godoc
// @Summary      Subir documento (jpeg, png o pdf; máx. 10 MiB)
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "documento"
// @Success      200   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/admin/documents/upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	got, err := h.intake.Receive(ctx, requestBody(c), multipartBoundary(c.Get(fiber.HeaderContentType)))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			// el resto del cuerpo no se lee: no reutilizar la conexión
			c.Set(fiber.HeaderConnection, "close")
		}
		return err
	}
	return c.JSON(dto.UploadResponse{Message: "File received successfully", Filename: got.Filename})
}

// Get godoc
// @Summary      Descargar documento
// @Description  No hay almacenamiento persistente: devuelve un contenido de marcador.
// @Tags         documents
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        key  path  string  true  "clave del documento"
// @Success      200  {file}  binary
// @Router       /api/admin/documents/{key} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	key := path.Base(c.Params("key"))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": key}))
	return c.SendString("placeholder content for document: " + key)
}

// requestBody con StreamRequestBody el cuerpo se lee a medida que llega.
func requestBody(c *fiber.Ctx) io.Reader {
	if s := c.Context().RequestBodyStream(); s != nil {
		return s
	}
	return bytes.NewReader(c.Body())
}

func multipartBoundary(contentType string) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != fiber.MIMEMultipartForm {
		return ""
	}
	return params["boundary"]
}
