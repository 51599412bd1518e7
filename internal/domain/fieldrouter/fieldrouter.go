// Package fieldrouter enruta una corrección hacia el registro subyacente que le
// corresponde (columna escalar del solicitante, fila de domicilio o fila laboral)
// y captura el valor anterior para auditoría. El enum de campos es cerrado: la
// tabla de capacidades define por variante dónde vive el dato, si es compuesto
// y con qué etiqueta se muestra.
package fieldrouter

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// Kind forma del valor del campo.
type Kind int

const (
	KindScalar Kind = iota
	KindComposite
)

// Target registro subyacente que guarda el campo.
type Target int

const (
	TargetApplicant Target = iota
	TargetAddress
	TargetEmployment
)

// Capability capacidades de un campo verificable.
type Capability struct {
	Kind      Kind
	Target    Target
	Label     string
	NameGroup bool // los tres campos del nombre se rechazan y etiquetan como una sola unidad
}

var table = map[entity.FieldName]Capability{
	entity.FieldFirstName:  {Kind: KindScalar, Target: TargetApplicant, Label: "Nombre", NameGroup: true},
	entity.FieldLastName1:  {Kind: KindScalar, Target: TargetApplicant, Label: "Apellido Paterno", NameGroup: true},
	entity.FieldLastName2:  {Kind: KindScalar, Target: TargetApplicant, Label: "Apellido Materno", NameGroup: true},
	entity.FieldCURP:       {Kind: KindScalar, Target: TargetApplicant, Label: "CURP"},
	entity.FieldRFC:        {Kind: KindScalar, Target: TargetApplicant, Label: "RFC"},
	entity.FieldINE:        {Kind: KindScalar, Target: TargetApplicant, Label: "INE"},
	entity.FieldBirthDate:  {Kind: KindScalar, Target: TargetApplicant, Label: "Fecha de Nacimiento"},
	entity.FieldPhone:      {Kind: KindScalar, Target: TargetApplicant, Label: "Teléfono"},
	entity.FieldEmail:      {Kind: KindScalar, Target: TargetApplicant, Label: "Correo Electrónico"},
	entity.FieldAddress:    {Kind: KindComposite, Target: TargetAddress, Label: "Dirección"},
	entity.FieldEmployment: {Kind: KindComposite, Target: TargetEmployment, Label: "Empleo"},
}

// Lookup devuelve las capacidades del campo.
func Lookup(f entity.FieldName) (Capability, bool) {
	c, ok := table[f]
	return c, ok
}

// IsVerifiable indica si el campo pertenece al enum reconocido.
func IsVerifiable(f entity.FieldName) bool {
	_, ok := table[f]
	return ok
}

// Label etiqueta legible del campo; el nombre del campo crudo si no se reconoce.
func Label(f entity.FieldName) string {
	if c, ok := table[f]; ok {
		return c.Label
	}
	return string(f)
}

// CollapseLabels convierte campos en etiquetas deduplicadas preservando el orden
// de primera aparición. Los tres sub-campos del nombre colapsan en una sola
// etiqueta de grupo (a lo más una por grupo).
func CollapseLabels(fields []entity.FieldName, groupLabel string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range fields {
		label := Label(f)
		if c, ok := table[f]; ok && c.NameGroup {
			label = groupLabel
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// Records registros vivos del solicitante sobre los que opera una corrección.
// Address y Employment pueden ser nil si no existen filas.
type Records struct {
	Applicant  *entity.Applicant
	Address    *entity.Address          // domicilio principal HOME
	Employment *entity.EmploymentRecord // registro laboral vigente
}

// ApplyCorrection despacha la corrección según el campo y devuelve el valor
// anterior para auditoría. Para compuestos el valor anterior se reconstruye del
// registro vivo (no del snapshot de la verificación); el snapshot almacenado solo
// es autoritativo para escalares simples sin estado reconstruible (CURP, RFC...).
//
// applied=false señala falla suave: la corrección de ADDRESS sin fila de
// domicilio existente no es un error duro pero tampoco cuenta como corrección.
func ApplyCorrection(rec Records, field entity.FieldName, newValue any, storedSnapshot string) (oldValue any, applied bool, err error) {
	c, ok := table[field]
	if !ok {
		return nil, false, domain.ErrFieldNotVerifiable
	}
	if newValue == nil {
		return nil, false, domain.ErrInvalidInput
	}

	switch {
	case c.NameGroup:
		return applyName(rec.Applicant, field, newValue)
	case c.Target == TargetApplicant:
		s, ok := asString(newValue)
		if !ok {
			return nil, false, domain.ErrInvalidInput
		}
		old := DecodeSnapshot(storedSnapshot)
		applyScalar(rec.Applicant, field, s)
		return old, true, nil
	case c.Target == TargetAddress:
		m, ok := newValue.(map[string]any)
		if !ok {
			return nil, false, domain.ErrInvalidInput
		}
		if rec.Address == nil {
			// Falla suave: no hay domicilio principal que corregir.
			return nil, false, nil
		}
		old := AddressComposite(rec.Address)
		applyAddress(rec.Address, m)
		return old, true, nil
	case c.Target == TargetEmployment:
		m, ok := newValue.(map[string]any)
		if !ok {
			return nil, false, domain.ErrInvalidInput
		}
		if rec.Employment == nil {
			return nil, false, nil
		}
		old := EmploymentComposite(rec.Employment)
		applyEmployment(rec.Employment, m)
		return old, true, nil
	}
	return nil, false, domain.ErrFieldNotVerifiable
}

// applyName actualiza campos de nombre. Un objeto compuesto con cualquiera de
// las tres claves actualiza todas las presentes en una pasada (el revisor
// rechaza el nombre completo como unidad); un escalar actualiza solo el campo
// objetivo. El valor anterior compuesto se reconstruye de las tres columnas vivas.
func applyName(a *entity.Applicant, field entity.FieldName, newValue any) (any, bool, error) {
	if m, ok := newValue.(map[string]any); ok {
		old := NameComposite(a)
		touched := false
		if v, ok := asString(m["first_name"]); ok {
			a.FirstName = v
			touched = true
		}
		if v, ok := asString(m["last_name_1"]); ok {
			a.LastName1 = v
			touched = true
		}
		if v, ok := asString(m["last_name_2"]); ok {
			a.LastName2 = v
			touched = true
		}
		if !touched {
			return nil, false, domain.ErrInvalidInput
		}
		return old, true, nil
	}
	s, ok := asString(newValue)
	if !ok {
		return nil, false, domain.ErrInvalidInput
	}
	var old string
	switch field {
	case entity.FieldFirstName:
		old, a.FirstName = a.FirstName, s
	case entity.FieldLastName1:
		old, a.LastName1 = a.LastName1, s
	case entity.FieldLastName2:
		old, a.LastName2 = a.LastName2, s
	}
	return old, true, nil
}

func applyScalar(a *entity.Applicant, field entity.FieldName, v string) {
	switch field {
	case entity.FieldCURP:
		a.CURP = v
	case entity.FieldRFC:
		a.RFC = v
	case entity.FieldINE:
		a.INE = v
	case entity.FieldBirthDate:
		a.BirthDate = v
	case entity.FieldPhone:
		a.Phone = v
	case entity.FieldEmail:
		a.Email = v
	}
}

func applyAddress(addr *entity.Address, m map[string]any) {
	if v, ok := asString(m["street"]); ok {
		addr.Street = v
	}
	if v, ok := asString(m["ext_number"]); ok {
		addr.ExtNumber = v
	}
	if v, ok := asString(m["int_number"]); ok {
		addr.IntNumber = v
	}
	if v, ok := asString(m["neighborhood"]); ok {
		addr.Neighborhood = v
	}
	if v, ok := asString(m["postal_code"]); ok {
		addr.PostalCode = v
	}
	if v, ok := asString(m["municipality"]); ok {
		addr.Municipality = v
	}
	if v, ok := asString(m["state"]); ok {
		addr.State = v
	}
}

// applyEmployment mezcla campo a campo: solo las claves presentes sobreescriben.
// El tipo pasa por el enum con default seguro cuando no se reconoce.
func applyEmployment(emp *entity.EmploymentRecord, m map[string]any) {
	if v, ok := asString(m["type"]); ok {
		emp.Type = entity.ParseEmploymentType(v)
	}
	if v, ok := asString(m["company"]); ok {
		emp.Company = v
	}
	if v, ok := asString(m["position"]); ok {
		emp.Position = v
	}
	if raw, present := m["monthly_income"]; present {
		if d, ok := asDecimal(raw); ok {
			emp.MonthlyIncome = d
		}
	}
	if raw, present := m["tenure_months"]; present {
		if d, ok := asDecimal(raw); ok {
			emp.TenureMonths = int(d.IntPart())
		}
	}
}

// NameComposite reconstruye el valor compuesto del nombre desde las columnas vivas.
func NameComposite(a *entity.Applicant) map[string]any {
	return map[string]any{
		"first_name":  a.FirstName,
		"last_name_1": a.LastName1,
		"last_name_2": a.LastName2,
	}
}

// AddressComposite reconstruye el valor compuesto desde la fila de domicilio viva.
func AddressComposite(addr *entity.Address) map[string]any {
	return map[string]any{
		"street":       addr.Street,
		"ext_number":   addr.ExtNumber,
		"int_number":   addr.IntNumber,
		"neighborhood": addr.Neighborhood,
		"postal_code":  addr.PostalCode,
		"municipality": addr.Municipality,
		"state":        addr.State,
	}
}

// EmploymentComposite reconstruye el valor compuesto desde la fila laboral viva.
func EmploymentComposite(emp *entity.EmploymentRecord) map[string]any {
	return map[string]any{
		"type":           string(emp.Type),
		"company":        emp.Company,
		"position":       emp.Position,
		"monthly_income": emp.MonthlyIncome.String(),
		"tenure_months":  emp.TenureMonths,
	}
}

// CurrentValue lee el valor vigente del campo desde los registros vivos, para
// snapshotear FieldValue al momento del rechazo. Devuelve nil si el registro
// subyacente no existe.
func CurrentValue(rec Records, field entity.FieldName) any {
	c, ok := table[field]
	if !ok {
		return nil
	}
	switch {
	case c.Target == TargetAddress:
		if rec.Address == nil {
			return nil
		}
		return AddressComposite(rec.Address)
	case c.Target == TargetEmployment:
		if rec.Employment == nil {
			return nil
		}
		return EmploymentComposite(rec.Employment)
	}
	if rec.Applicant == nil {
		return nil
	}
	switch field {
	case entity.FieldFirstName:
		return rec.Applicant.FirstName
	case entity.FieldLastName1:
		return rec.Applicant.LastName1
	case entity.FieldLastName2:
		return rec.Applicant.LastName2
	case entity.FieldCURP:
		return rec.Applicant.CURP
	case entity.FieldRFC:
		return rec.Applicant.RFC
	case entity.FieldINE:
		return rec.Applicant.INE
	case entity.FieldBirthDate:
		return rec.Applicant.BirthDate
	case entity.FieldPhone:
		return rec.Applicant.Phone
	case entity.FieldEmail:
		return rec.Applicant.Email
	}
	return nil
}

// Serialize serializa un valor para FieldValue/historial: los strings van tal
// cual, el resto como JSON.
func Serialize(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// DecodeSnapshot decodifica el snapshot escalar almacenado en la verificación.
// Si quedó guardado como string JSON (comillas incluidas) se decodifica antes
// de devolverlo; si es JSON compuesto se devuelve el mapa.
func DecodeSnapshot(s string) any {
	if s == "" {
		return ""
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		switch decoded.(type) {
		case string, map[string]any:
			return decoded
		}
	}
	return s
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return decimal.NewFromFloat(s).String(), true
	}
	return "", false
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	case decimal.Decimal:
		return n, true
	}
	return decimal.Zero, false
}
