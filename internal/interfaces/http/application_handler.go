package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/loans"
)

// ApplicationHandler maneja el ciclo de vida de la solicitud del lado del
// solicitante (protegido).
type ApplicationHandler struct {
	uc *loans.UseCase
}

// NewApplicationHandler construye el handler.
func NewApplicationHandler(uc *loans.UseCase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Create crea una solicitud en DRAFT.
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	applicantID, err := h.uc.ResolveApplicant(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), applicantID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista las solicitudes del solicitante autenticado.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	applicantID, err := h.uc.ResolveApplicant(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	out, err := h.uc.ListByApplicant(c.Context(), GetTenantID(c), applicantID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve una solicitud.
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Timeline devuelve la línea de tiempo de una solicitud.
func (h *ApplicationHandler) Timeline(c *fiber.Ctx) error {
	out, err := h.uc.Timeline(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// History devuelve el historial de estados de una solicitud.
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"application_id": c.Params("id"), "entries": out})
}

// Submit envía la solicitud. Con requisitos incompletos responde 422 con el
// mapa de faltantes completo, nunca solo el primero.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c), c.IP())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela la solicitud con motivo opcional.
func (h *ApplicationHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Cancel(c.Context(), GetTenantID(c), c.Params("id"), in.Reason, GetUserID(c), c.IP())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// AcceptCounterOffer acepta la contraoferta vigente.
func (h *ApplicationHandler) AcceptCounterOffer(c *fiber.Ctx) error {
	out, err := h.uc.AcceptCounterOffer(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c), c.IP())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
