package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/documents"
	"github.com/credipronto/originacion-api/internal/application/dto"
)

// Vigencia de las URLs firmadas de descarga.
const presignExpiry = 15 * time.Minute

// DocumentHandler maneja carga, listado y revisión de documentos.
type DocumentHandler struct {
	uc *documents.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload recibe el archivo por multipart ("file") más el campo "type".
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	docType := c.FormValue("type")
	if docType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type es requerido"})
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'file' requerido"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	out, err := h.uc.Upload(c.Context(), GetTenantID(c), c.Params("id"), docType, fileHeader.Filename, contentType, fileHeader.Size, file, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista los documentos de una solicitud.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Download devuelve una URL firmada temporal de descarga.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	url, err := h.uc.PresignDownload(c.Context(), GetTenantID(c), c.Params("docId"), presignExpiry)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"url": url, "expires_in_seconds": int(presignExpiry.Seconds())})
}

// Approve aprueba un documento (analista).
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), GetTenantID(c), c.Params("docId"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject rechaza un documento con motivo (analista).
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	var in dto.DocumentReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	out, err := h.uc.Reject(c.Context(), GetTenantID(c), c.Params("docId"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
