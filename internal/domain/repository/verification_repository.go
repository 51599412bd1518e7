package repository

import "github.com/credipronto/originacion-api/internal/domain/entity"

// DataVerificationRepository puerto de persistencia para verificaciones por campo.
// Las filas se crean de forma perezosa en el primer rechazo.
type DataVerificationRepository interface {
	Create(v *entity.DataVerification) error
	GetByApplicantAndField(applicantID string, field entity.FieldName) (*entity.DataVerification, error)
	ListByApplicant(applicantID string) ([]*entity.DataVerification, error)
	ListRejected(applicantID string) ([]*entity.DataVerification, error)
	Update(v *entity.DataVerification) error
}
