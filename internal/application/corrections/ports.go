package corrections

import (
	"context"

	"github.com/credipronto/originacion-api/internal/domain/repository"
)

// Repos repositorios atados a una transacción de corrección.
type Repos struct {
	Applicants    repository.ApplicantRepository
	Addresses     repository.AddressRepository
	Employments   repository.EmploymentRepository
	Verifications repository.DataVerificationRepository
	Applications  repository.ApplicationRepository
	Documents     repository.DocumentRepository
	Audit         repository.AuditRepository
}

// TxRunner ejecuta una función dentro de una transacción serializada por
// solicitante. El lock abarca los N agregados de solicitud del solicitante
// (no solo uno): dos envíos de corrección concurrentes no pueden observar
// ambos un snapshot "aún rechazado" y duplicar (o perder) la transición a
// revisión.
type TxRunner interface {
	RunApplicant(ctx context.Context, applicantID string, fn func(r Repos) error) error
}
