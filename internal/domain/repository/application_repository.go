package repository

import "github.com/credipronto/originacion-api/internal/domain/entity"

// ApplicationRepository puerto de persistencia para solicitudes de crédito.
// Update escribe status, status_history y timeline en una sola operación para
// que ningún lector observe estado e historial fuera de sincronía.
type ApplicationRepository interface {
	Create(app *entity.Application) error
	GetByID(id string) (*entity.Application, error)
	ListByApplicant(applicantID string) ([]*entity.Application, error)
	ListByApplicantAndStatus(applicantID string, status entity.Status) ([]*entity.Application, error)
	Update(app *entity.Application) error
}
