package repository

import "github.com/credipronto/originacion-api/internal/domain/entity"

// UserRepository puerto de persistencia para cuentas de acceso.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(tenantID, email string) (*entity.User, error)
}

// AuditRepository puerto del log de auditoría (solo-agregado). Append se invoca
// dentro de la misma transacción que la mutación auditada.
type AuditRepository interface {
	Append(e *entity.AuditEvent) error
	ListByEntity(entityType, entityID string) ([]*entity.AuditEvent, error)
}
