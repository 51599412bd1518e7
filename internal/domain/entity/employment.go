package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType tipo de empleo del solicitante.
type EmploymentType string

const (
	EmploymentEmpleado      EmploymentType = "EMPLEADO"
	EmploymentIndependiente EmploymentType = "INDEPENDIENTE"
	EmploymentNegocioPropio EmploymentType = "NEGOCIO_PROPIO"
	EmploymentJubilado      EmploymentType = "JUBILADO"
	EmploymentOtro          EmploymentType = "OTRO"
)

// ParseEmploymentType decodifica un tipo de empleo. Valores no reconocidos
// caen al default seguro OTRO (las correcciones pueden traer códigos libres).
func ParseEmploymentType(s string) EmploymentType {
	switch EmploymentType(s) {
	case EmploymentEmpleado, EmploymentIndependiente, EmploymentNegocioPropio, EmploymentJubilado, EmploymentOtro:
		return EmploymentType(s)
	}
	return EmploymentOtro
}

// Label etiqueta legible del tipo de empleo.
func (t EmploymentType) Label() string {
	switch t {
	case EmploymentEmpleado:
		return "Empleado"
	case EmploymentIndependiente:
		return "Independiente"
	case EmploymentNegocioPropio:
		return "Negocio Propio"
	case EmploymentJubilado:
		return "Jubilado"
	default:
		return "Otro"
	}
}

// EmploymentRecord registro laboral. A lo más uno por solicitante es el vigente.
type EmploymentRecord struct {
	ID            string
	TenantID      string
	ApplicantID   string
	Current       bool
	Type          EmploymentType
	Company       string
	Position      string
	MonthlyIncome decimal.Decimal
	TenureMonths  int // antigüedad en meses
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
