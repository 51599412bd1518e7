package dto

import "time"

// ProfileRequest alta o actualización del perfil del solicitante.
type ProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName1 string `json:"last_name_1"`
	LastName2 string `json:"last_name_2"`
	CURP      string `json:"curp"`
	RFC       string `json:"rfc"`
	INE       string `json:"ine"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// AddressRequest alta o reemplazo del domicilio principal.
type AddressRequest struct {
	Type         string `json:"type"` // HOME | WORK; vacío = HOME
	Street       string `json:"street"`
	ExtNumber    string `json:"ext_number"`
	IntNumber    string `json:"int_number"`
	Neighborhood string `json:"neighborhood"`
	PostalCode   string `json:"postal_code"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
}

// EmploymentRequest alta o actualización del registro laboral vigente.
type EmploymentRequest struct {
	Type          string `json:"type"`
	Company       string `json:"company"`
	Position      string `json:"position"`
	MonthlyIncome string `json:"monthly_income"`
	TenureMonths  int    `json:"tenure_months"`
}

// ReferenceRequest alta de una referencia personal.
type ReferenceRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// ProfileResponse perfil del solicitante.
type ProfileResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName1 string     `json:"last_name_1"`
	LastName2 string     `json:"last_name_2"`
	CURP      string     `json:"curp"`
	RFC       string     `json:"rfc"`
	INE       string     `json:"ine"`
	BirthDate string     `json:"birth_date"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	SignedAt  *time.Time `json:"signed_at,omitempty"`
	Status    string     `json:"status"`
}
