package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/loans"
)

// ReviewHandler operaciones del analista sobre la solicitud (protegido, rol
// analista/admin en el router).
type ReviewHandler struct {
	uc *loans.UseCase
}

// NewReviewHandler construye el handler.
func NewReviewHandler(uc *loans.UseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// StartReview toma la solicitud para revisión.
func (h *ReviewHandler) StartReview(c *fiber.Ctx) error {
	out, err := h.uc.StartReview(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// RequestDocs pide documentos adicionales.
func (h *ReviewHandler) RequestDocs(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RequestDocs(c.Context(), GetTenantID(c), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// RequestCorrections abre el ciclo de correcciones.
func (h *ReviewHandler) RequestCorrections(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RequestCorrections(c.Context(), GetTenantID(c), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// CounterOffer registra una contraoferta.
func (h *ReviewHandler) CounterOffer(c *fiber.Ctx) error {
	var in dto.CounterOfferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CounterOffer(c.Context(), GetTenantID(c), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Approve aprueba la solicitud.
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Approve(c.Context(), GetTenantID(c), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject rechaza la solicitud (terminal, el motivo es obligatorio).
func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RejectApplication(c.Context(), GetTenantID(c), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Disburse marca el desembolso.
func (h *ReviewHandler) Disburse(c *fiber.Ctx) error {
	out, err := h.uc.Disburse(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// MarkSynced marca la sincronización con el core bancario.
func (h *ReviewHandler) MarkSynced(c *fiber.Ctx) error {
	out, err := h.uc.MarkSynced(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
