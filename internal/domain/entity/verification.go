package entity

import (
	"encoding/json"
	"time"
)

// FieldName identifica un campo verificable del solicitante. Enum cerrado:
// el router de correcciones mantiene la tabla de capacidades por variante.
type FieldName string

const (
	FieldFirstName  FieldName = "FIRST_NAME"
	FieldLastName1  FieldName = "LAST_NAME_1"
	FieldLastName2  FieldName = "LAST_NAME_2"
	FieldCURP       FieldName = "CURP"
	FieldRFC        FieldName = "RFC"
	FieldINE        FieldName = "INE"
	FieldBirthDate  FieldName = "BIRTH_DATE"
	FieldPhone      FieldName = "PHONE"
	FieldEmail      FieldName = "EMAIL"
	FieldAddress    FieldName = "ADDRESS"
	FieldEmployment FieldName = "EMPLOYMENT"
)

// VerificationStatus estado de verificación de un campo.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "PENDING"
	VerificationVerified  VerificationStatus = "VERIFIED"
	VerificationRejected  VerificationStatus = "REJECTED"
	VerificationCorrected VerificationStatus = "CORRECTED"
)

// CorrectionEntry una corrección aplicada sobre un campo rechazado.
// OldValue y NewValue van serializados (JSON para compuestos, texto para escalares).
type CorrectionEntry struct {
	OldValue        string    `json:"old_value"`
	NewValue        string    `json:"new_value"`
	RejectionReason string    `json:"rejection_reason"`
	CorrectedBy     string    `json:"corrected_by"`
	CorrectedAt     time.Time `json:"corrected_at"`
}

// CorrectionLog historial de correcciones: solo-agregado, nunca se trunca.
type CorrectionLog struct {
	entries []CorrectionEntry
}

// Append agrega una corrección al final del log.
func (l *CorrectionLog) Append(e CorrectionEntry) {
	l.entries = append(l.entries, e)
}

// Entries devuelve una copia de las entradas en orden de inserción.
func (l *CorrectionLog) Entries() []CorrectionEntry {
	out := make([]CorrectionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len cantidad de correcciones registradas.
func (l *CorrectionLog) Len() int { return len(l.entries) }

// MarshalJSON serializa el log como arreglo plano (columna JSONB).
func (l CorrectionLog) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON restaura el log desde el arreglo persistido.
func (l *CorrectionLog) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.entries)
}

// DataVerification estado de verificación de un campo de un solicitante.
// Se crea de forma perezosa la primera vez que un revisor rechaza el campo;
// no existe fila mientras el campo nunca haya sido cuestionado.
// Invariante: solo se pasa a CORRECTED desde REJECTED.
type DataVerification struct {
	ID              string
	TenantID        string
	ApplicantID     string
	FieldName       FieldName
	Status          VerificationStatus
	FieldValue      string // último valor conocido (serializado si es compuesto)
	RejectionReason string
	RejectedAt      *time.Time
	CorrectedAt     *time.Time
	History         CorrectionLog
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
