package repository

import "github.com/credipronto/originacion-api/internal/domain/entity"

// DocumentRepository puerto de persistencia para documentos cargados.
type DocumentRepository interface {
	Create(d *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	ListByApplication(applicationID string) ([]*entity.Document, error)
	// ListRejectedByApplicant devuelve los documentos en REJECTED no superados
	// de todas las solicitudes del solicitante (compuerta del reconciliador).
	ListRejectedByApplicant(applicantID string) ([]*entity.Document, error)
	Update(d *entity.Document) error
	// SupersedeRejected marca como superados los rechazos previos del tipo
	// canónico dado; se invoca al aprobar un documento nuevo del mismo tipo.
	SupersedeRejected(applicationID string, canonicalType entity.DocumentType) error
}
