package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// CorrectionHandler maneja verificación y corrección de campos. El rechazo es
// del analista; la corrección del solicitante dueño del perfil.
type CorrectionHandler struct {
	uc *corrections.UseCase
}

// NewCorrectionHandler construye el handler.
func NewCorrectionHandler(uc *corrections.UseCase) *CorrectionHandler {
	return &CorrectionHandler{uc: uc}
}

// RejectField rechaza un campo del solicitante (analista).
func (h *CorrectionHandler) RejectField(c *fiber.Ctx) error {
	var in dto.RejectFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.FieldName == "" || in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "field_name y reason son requeridos"})
	}
	out, err := h.uc.RejectField(c.Context(), GetTenantID(c), c.Params("applicantId"), entity.FieldName(in.FieldName), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// ListRejected lista los campos rechazados de un solicitante (analista).
func (h *CorrectionHandler) ListRejected(c *fiber.Ctx) error {
	out, err := h.uc.ListRejected(c.Context(), GetTenantID(c), c.Params("applicantId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// SubmitCorrection aplica una corrección sobre un campo rechazado del perfil
// del usuario autenticado.
func (h *CorrectionHandler) SubmitCorrection(c *fiber.Ctx) error {
	var in dto.SubmitCorrectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	applicantID, err := h.uc.ResolveApplicant(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.SubmitCorrection(c.Context(), GetTenantID(c), applicantID, in, GetUserID(c), c.IP())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// MyRejected lista los campos rechazados del usuario autenticado.
func (h *CorrectionHandler) MyRejected(c *fiber.Ctx) error {
	applicantID, err := h.uc.ResolveApplicant(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.ListRejected(c.Context(), GetTenantID(c), applicantID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// History devuelve el historial aplanado de correcciones de un solicitante (analista).
func (h *CorrectionHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.ListCorrectionHistory(c.Context(), GetTenantID(c), c.Params("applicantId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
