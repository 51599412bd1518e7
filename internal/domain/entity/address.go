package entity

import "time"

// Tipos de domicilio.
const (
	AddressTypeHome = "HOME"
	AddressTypeWork = "WORK"
)

// Address domicilio del solicitante. A lo más uno por tipo es el principal.
type Address struct {
	ID           string
	TenantID     string
	ApplicantID  string
	Type         string // HOME | WORK
	IsPrimary    bool
	Street       string
	ExtNumber    string
	IntNumber    string
	Neighborhood string // colonia
	PostalCode   string
	Municipality string
	State        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
