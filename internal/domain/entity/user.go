package entity

import "time"

// Roles de usuario.
const (
	RoleSolicitante = "solicitante"
	RoleAnalista    = "analista"
	RoleAdmin       = "admin"
)

// User cuenta de acceso (solicitante o personal de revisión).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | blocked
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
