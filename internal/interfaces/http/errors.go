package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
)

// respondDomainError mapea errores de dominio a respuestas HTTP. Los casos que
// un handler quiera reportar distinto se atienden antes de llamar aquí.
func respondDomainError(c *fiber.Ctx, err error) error {
	var incomplete *domain.IncompleteDataError
	if errors.As(err, &incomplete) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.FieldErrorResponse{
			Code:    "INCOMPLETE_DATA",
			Message: "la solicitud tiene requisitos incompletos",
			Fields:  incomplete.Fields,
		})
	}
	var illegal *workflow.IllegalTransitionError
	if errors.As(err, &illegal) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ILLEGAL_TRANSITION", Message: illegal.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrFieldNotVerifiable):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FIELD_NOT_VERIFIABLE", Message: "el campo no es verificable"})
	case errors.Is(err, domain.ErrTooManyReferences):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOO_MANY_REFERENCES", Message: "se alcanzó el máximo de referencias"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNoPendingCorrection):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_PENDING_CORRECTION", Message: "el campo no tiene corrección pendiente"})
	case errors.Is(err, domain.ErrAddressMissing):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ADDRESS_MISSING", Message: "no hay domicilio registrado para corregir"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado en este tenant"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
