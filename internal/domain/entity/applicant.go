package entity

import "time"

// Applicant perfil del solicitante: un registro por usuario final por tenant.
// Los campos escalares de identidad son a la vez datos de negocio y objetivos
// de verificación (ver DataVerification). Nunca se borra; solo invalidación suave.
type Applicant struct {
	ID        string
	TenantID  string
	UserID    string // usuario dueño del perfil
	FirstName string
	LastName1 string // apellido paterno
	LastName2 string // apellido materno
	CURP      string
	RFC       string
	INE       string // clave de elector
	BirthDate string // YYYY-MM-DD; viaja como texto porque las correcciones lo tratan igual que CURP/RFC
	Phone     string
	Email     string
	SignedAt  *time.Time // firma del consentimiento; requisito de completitud
	Status    string     // active | invalidated
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPersonalData indica si los datos personales mínimos están capturados.
func (a *Applicant) HasPersonalData() bool {
	return a.FirstName != "" && a.LastName1 != "" && a.CURP != "" && a.BirthDate != "" && a.Phone != ""
}

// HasSignature indica si el solicitante ya firmó el consentimiento.
func (a *Applicant) HasSignature() bool {
	return a.SignedAt != nil
}
