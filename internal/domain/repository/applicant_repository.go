package repository

import "github.com/credipronto/originacion-api/internal/domain/entity"

// ApplicantRepository puerto de persistencia para el perfil del solicitante.
type ApplicantRepository interface {
	Create(a *entity.Applicant) error
	GetByID(id string) (*entity.Applicant, error)
	GetByUser(tenantID, userID string) (*entity.Applicant, error)
	Update(a *entity.Applicant) error
}

// AddressRepository puerto de persistencia para domicilios.
type AddressRepository interface {
	Create(a *entity.Address) error
	GetPrimaryHome(applicantID string) (*entity.Address, error)
	ListByApplicant(applicantID string) ([]*entity.Address, error)
	Update(a *entity.Address) error
	ClearPrimary(applicantID, addressType string) error
}

// EmploymentRepository puerto de persistencia para registros laborales.
type EmploymentRepository interface {
	Create(e *entity.EmploymentRecord) error
	GetCurrent(applicantID string) (*entity.EmploymentRecord, error)
	Update(e *entity.EmploymentRecord) error
	ClearCurrent(applicantID string) error
}

// ReferenceRepository puerto de persistencia para referencias personales.
type ReferenceRepository interface {
	Create(r *entity.Reference) error
	ListByApplication(applicationID string) ([]*entity.Reference, error)
	CountByApplication(applicationID string) (int, error)
}
