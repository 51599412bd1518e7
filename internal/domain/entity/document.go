package entity

import "time"

// DocumentType tipo de documento cargado. Algunos tipos tienen alias históricos
// (los clientes viejos envían RFC en lugar de RFC_CONSTANCIA); la comparación
// de requisitos siempre pasa por Canonical.
type DocumentType string

const (
	DocIdentificacion       DocumentType = "IDENTIFICACION"
	DocComprobanteDomicilio DocumentType = "COMPROBANTE_DOMICILIO"
	DocComprobanteIngresos  DocumentType = "COMPROBANTE_INGRESOS"
	DocRFCConstancia        DocumentType = "RFC_CONSTANCIA"
	DocRFC                  DocumentType = "RFC" // alias de RFC_CONSTANCIA
	DocEstadoCuenta         DocumentType = "ESTADO_CUENTA"
	DocComprobanteDomAlias  DocumentType = "DOMICILIO" // alias de COMPROBANTE_DOMICILIO
)

var docAliases = map[DocumentType]DocumentType{
	DocRFC:                 DocRFCConstancia,
	DocComprobanteDomAlias: DocComprobanteDomicilio,
}

var docLabels = map[DocumentType]string{
	DocIdentificacion:       "Identificación Oficial",
	DocComprobanteDomicilio: "Comprobante de Domicilio",
	DocComprobanteIngresos:  "Comprobante de Ingresos",
	DocRFCConstancia:        "Constancia de Situación Fiscal",
	DocEstadoCuenta:         "Estado de Cuenta",
}

// Canonical resuelve alias al tipo canónico.
func (t DocumentType) Canonical() DocumentType {
	if c, ok := docAliases[t]; ok {
		return c
	}
	return t
}

// Label etiqueta legible del tipo (resuelve alias primero).
func (t DocumentType) Label() string {
	if l, ok := docLabels[t.Canonical()]; ok {
		return l
	}
	return string(t)
}

// DocumentStatus estado de revisión de un documento.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// Document archivo cargado para una solicitud. Un documento rechazado se puede
// volver a cargar; el registro de rechazo sobrevive (Superseded=false) hasta que
// un documento nuevo del mismo tipo es aprobado.
type Document struct {
	ID              string
	TenantID        string
	ApplicationID   string
	Type            DocumentType
	Status          DocumentStatus
	FileName        string
	StorageKey      string
	ContentType     string
	Size            int64
	RejectionReason string
	ReviewedAt      *time.Time
	ReviewedBy      string
	Superseded      bool // el rechazo fue cubierto por una carga posterior aprobada
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
