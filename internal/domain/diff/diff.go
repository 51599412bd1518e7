// Package diff calcula diferencias legibles entre el valor anterior y el nuevo
// de un campo corregido, y renderiza resúmenes de una línea para la línea de
// tiempo. La comparación normaliza antes de diferir para que variantes de
// formato ("0" vs "0.0", mayúsculas, acentos) no produzcan entradas espurias.
package diff

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// Valor mostrado cuando un dato está vacío o es irrecuperable.
const emptyDisplay = "(vacío)"

// Sub-claves conocidas por tipo compuesto, con su etiqueta y orden de despliegue.
type fieldLabel struct {
	key   string
	label string
}

var nameFields = []fieldLabel{
	{"first_name", "Nombre"},
	{"last_name_1", "Apellido Paterno"},
	{"last_name_2", "Apellido Materno"},
}

var addressFields = []fieldLabel{
	{"street", "Calle"},
	{"ext_number", "Número Exterior"},
	{"int_number", "Número Interior"},
	{"neighborhood", "Colonia"},
	{"postal_code", "Código Postal"},
	{"municipality", "Municipio"},
	{"state", "Estado"},
}

var employmentFields = []fieldLabel{
	{"type", "Tipo de Empleo"},
	{"company", "Empresa"},
	{"position", "Puesto"},
	{"monthly_income", "Ingreso Mensual"},
	{"tenure_months", "Antigüedad (meses)"},
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Diff compara valor anterior y nuevo para un campo y devuelve un mapa
// etiqueta -> "anterior → nuevo" solo con las sub-claves que cambiaron de
// verdad. Para campos escalares devuelve a lo más una entrada bajo la etiqueta
// del campo.
func Diff(oldV, newV any, field entity.FieldName) map[string]string {
	switch field {
	case entity.FieldFirstName, entity.FieldLastName1, entity.FieldLastName2:
		if isComposite(oldV) || isComposite(newV) {
			return diffComposite(oldV, newV, nameFields)
		}
	case entity.FieldAddress:
		return diffComposite(oldV, newV, addressFields)
	case entity.FieldEmployment:
		return diffComposite(oldV, newV, employmentFields)
	}
	// Escalar
	out := map[string]string{}
	if !equalNormalized(oldV, newV) {
		out[scalarLabel(field)] = fmt.Sprintf("%s → %s", display(oldV), display(newV))
	}
	return out
}

func scalarLabel(field entity.FieldName) string {
	switch field {
	case entity.FieldFirstName:
		return "Nombre"
	case entity.FieldLastName1:
		return "Apellido Paterno"
	case entity.FieldLastName2:
		return "Apellido Materno"
	case entity.FieldCURP:
		return "CURP"
	case entity.FieldRFC:
		return "RFC"
	case entity.FieldINE:
		return "INE"
	case entity.FieldBirthDate:
		return "Fecha de Nacimiento"
	case entity.FieldPhone:
		return "Teléfono"
	case entity.FieldEmail:
		return "Correo Electrónico"
	}
	return string(field)
}

func isComposite(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func diffComposite(oldV, newV any, fields []fieldLabel) map[string]string {
	oldM, _ := oldV.(map[string]any)
	newM, _ := newV.(map[string]any)
	out := map[string]string{}
	for _, f := range fields {
		ov, ook := oldM[f.key]
		nv, nok := newM[f.key]
		if !ook && !nok {
			continue
		}
		if !nok {
			// La corrección no tocó esta sub-clave.
			continue
		}
		if equalNormalized(ov, nv) {
			continue
		}
		out[f.label] = fmt.Sprintf("%s → %s", display(ov), display(nv))
	}
	return out
}

// equalNormalized compara con normalización: vacío y nulo colapsan al mismo
// centinela, los números se comparan como decimales y los códigos enumerados
// sin distinguir mayúsculas ni acentos.
func equalNormalized(a, b any) bool {
	na, nb := normalize(a), normalize(b)
	return na == nb
}

func normalize(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return ""
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return "num:" + d.String()
	}
	return foldText(s)
}

// foldText minúsculas sin marcas diacríticas (NFD + remoción de Mn + NFC).
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// FormatSummary renderiza un resumen de una línea de cualquier valor escalar o
// compuesto para la línea de tiempo. Nunca entra en pánico con entradas
// malformadas: degrada a "(vacío)".
func FormatSummary(v any) string {
	switch val := v.(type) {
	case nil:
		return emptyDisplay
	case string:
		return display(val)
	case map[string]any:
		return summarizeComposite(val)
	case decimal.Decimal:
		return val.String()
	default:
		return display(val)
	}
}

func summarizeComposite(m map[string]any) string {
	if hasAnyKey(m, "first_name", "last_name_1", "last_name_2") {
		parts := joinNonEmpty(" ", str(m["first_name"]), str(m["last_name_1"]), str(m["last_name_2"]))
		if parts == "" {
			return emptyDisplay
		}
		return parts
	}
	if hasAnyKey(m, "company", "position", "monthly_income") {
		tipo := entity.ParseEmploymentType(str(m["type"])).Label()
		income := str(m["monthly_income"])
		if income != "" {
			income = "$" + income
		}
		s := joinNonEmpty(" - ", tipo, str(m["company"]), str(m["position"]), income)
		if s == "" {
			return emptyDisplay
		}
		return s
	}
	if hasAnyKey(m, "street", "neighborhood", "postal_code") {
		var parts []string
		calle := joinNonEmpty(" ", str(m["street"]), str(m["ext_number"]))
		if calle != "" {
			parts = append(parts, calle)
		}
		if col := str(m["neighborhood"]); col != "" {
			parts = append(parts, "Col. "+col)
		}
		if cp := str(m["postal_code"]); cp != "" {
			parts = append(parts, "C.P. "+cp)
		}
		if mun := str(m["municipality"]); mun != "" {
			parts = append(parts, mun)
		}
		if edo := str(m["state"]); edo != "" {
			parts = append(parts, edo)
		}
		if len(parts) == 0 {
			return emptyDisplay
		}
		return strings.Join(parts, ", ")
	}
	// Compuesto no reconocido: primer valor no vacío en orden estable de claves.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return display(s)
		}
	}
	return emptyDisplay
}

// display renderiza un valor escalar: fechas YYYY-MM-DD se reformatean a
// DD/MM/YYYY, vacío y nulo se muestran como "(vacío)".
func display(v any) string {
	if v == nil {
		return emptyDisplay
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return emptyDisplay
	}
	if dateRe.MatchString(s) {
		return s[8:10] + "/" + s[5:7] + "/" + s[0:4]
	}
	return s
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func hasAnyKey(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
