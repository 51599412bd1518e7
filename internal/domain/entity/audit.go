package entity

import "time"

// AuditEvent entrada del log de auditoría (solo-agregado). Se persiste en la
// misma transacción que la mutación que describe.
type AuditEvent struct {
	ID         string
	TenantID   string
	Action     string
	ActorID    string
	EntityType string
	EntityID   string
	Payload    map[string]any
	CreatedAt  time.Time
}
