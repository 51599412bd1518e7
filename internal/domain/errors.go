package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrFieldNotVerifiable  = errors.New("campo no verificable")
	ErrNoPendingCorrection = errors.New("no hay rechazo pendiente para el campo")
	ErrAddressMissing      = errors.New("el solicitante no tiene domicilio principal")
	ErrTooManyReferences   = errors.New("se alcanzó el máximo de referencias")
)

// IncompleteDataError se retorna cuando el envío de una solicitud no cumple todas las
// condiciones de completitud. Reporta TODOS los requisitos faltantes a la vez, nunca
// solo el primero, con un mapa campo -> motivo.
type IncompleteDataError struct {
	Fields map[string]string
}

func (e *IncompleteDataError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("datos incompletos: %s", strings.Join(keys, ", "))
}

// AsIncompleteData extrae un *IncompleteDataError de la cadena de errores.
func AsIncompleteData(err error) (*IncompleteDataError, bool) {
	var ie *IncompleteDataError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
