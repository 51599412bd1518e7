package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/onboarding"
)

// OnboardingHandler maneja la captura del expediente del solicitante (protegido).
type OnboardingHandler struct {
	uc *onboarding.UseCase
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(uc *onboarding.UseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// SaveProfile crea o actualiza el perfil del usuario autenticado.
func (h *OnboardingHandler) SaveProfile(c *fiber.Ctx) error {
	var in dto.ProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpsertProfile(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// GetProfile devuelve el perfil del usuario autenticado.
func (h *OnboardingHandler) GetProfile(c *fiber.Ctx) error {
	out, err := h.uc.GetProfile(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// SaveAddress guarda el domicilio principal (reemplaza al anterior del mismo tipo).
func (h *OnboardingHandler) SaveAddress(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SaveAddress(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SaveEmployment guarda el registro laboral vigente.
func (h *OnboardingHandler) SaveEmployment(c *fiber.Ctx) error {
	var in dto.EmploymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SaveEmployment(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddReference agrega una referencia personal a una solicitud.
func (h *OnboardingHandler) AddReference(c *fiber.Ctx) error {
	var in dto.ReferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddReference(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReferences lista las referencias de una solicitud.
func (h *OnboardingHandler) ListReferences(c *fiber.Ctx) error {
	out, err := h.uc.ListReferences(c.Context(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Sign registra la firma del consentimiento (idempotente).
func (h *OnboardingHandler) Sign(c *fiber.Ctx) error {
	out, err := h.uc.Sign(c.Context(), GetTenantID(c), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
