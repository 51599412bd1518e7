package workflow

import (
	"fmt"

	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// CompletenessInput insumos de la verificación de completitud para enviar una
// solicitud. Los booleanos los provee el catálogo/perfil; los documentos llegan
// con su tipo tal como fue cargado (la normalización de alias ocurre aquí).
type CompletenessInput struct {
	HasPersonalData bool
	HasAddress      bool
	HasEmployment   bool
	HasSignature    bool
	HasPurpose      bool
	RequiredDocs    []entity.DocumentType
	UploadedDocs    []entity.DocumentType
	ReferenceCount  int
	MinReferences   int
}

// CheckCompleteness valida todas las condiciones de envío y reporta TODOS los
// requisitos faltantes en un solo *domain.IncompleteDataError con mapa por campo
// (nunca solo el primero). Devuelve nil si la solicitud está completa.
func CheckCompleteness(in CompletenessInput) error {
	missing := map[string]string{}

	if !in.HasPersonalData {
		missing["personal_data"] = "faltan datos personales del solicitante"
	}
	if !in.HasAddress {
		missing["address"] = "falta el domicilio principal"
	}
	if !in.HasEmployment {
		missing["employment"] = "falta la información laboral"
	}
	if !in.HasSignature {
		missing["signature"] = "falta la firma del consentimiento"
	}
	if !in.HasPurpose {
		missing["purpose"] = "falta el destino del crédito"
	}

	// Documentos requeridos: la comparación usa el tipo canónico, de modo que un
	// documento cargado como RFC satisface el requisito RFC_CONSTANCIA.
	uploaded := make(map[entity.DocumentType]bool, len(in.UploadedDocs))
	for _, d := range in.UploadedDocs {
		uploaded[d.Canonical()] = true
	}
	for _, req := range in.RequiredDocs {
		if !uploaded[req.Canonical()] {
			key := "document_" + string(req.Canonical())
			missing[key] = fmt.Sprintf("falta el documento %s", req.Label())
		}
	}

	if in.ReferenceCount < in.MinReferences {
		missing["references"] = fmt.Sprintf("se requieren al menos %d referencias", in.MinReferences)
	}

	if len(missing) > 0 {
		return &domain.IncompleteDataError{Fields: missing}
	}
	return nil
}
