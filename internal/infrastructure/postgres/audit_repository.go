package postgres

import (
	"context"
	"fmt"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre PostgreSQL (usable con pool o tx).
// La tabla es de solo-agregado; no hay Update ni Delete.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador del log de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append persiste un evento de auditoría.
func (r *AuditRepo) Append(e *entity.AuditEvent) error {
	query := `
		INSERT INTO audit_events (id, tenant_id, action, actor_id, entity_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TenantID, e.Action, e.ActorID, e.EntityType, e.EntityID, e.Payload, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByEntity lista los eventos de una entidad, más antiguo primero.
func (r *AuditRepo) ListByEntity(entityType, entityID string) ([]*entity.AuditEvent, error) {
	query := `
		SELECT id, tenant_id, action, actor_id, entity_type, entity_id, payload, created_at
		FROM audit_events WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEvent
	for rows.Next() {
		var e entity.AuditEvent
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Action, &e.ActorID, &e.EntityType, &e.EntityID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
