package entity

import "time"

// Reference referencia personal de una solicitud. La política de producto exige
// un mínimo para enviar y un máximo por solicitud (configurables).
type Reference struct {
	ID            string
	TenantID      string
	ApplicationID string
	Name          string
	Phone         string
	Relationship  string // familiar, amistad, laboral
	CreatedAt     time.Time
}
