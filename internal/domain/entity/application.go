package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status estado grueso de una solicitud de crédito.
type Status string

// Estados del ciclo de vida. DRAFT es el inicial; REJECTED, CANCELLED y SYNCED
// son terminales (ninguna transición legal sale de ellos).
const (
	StatusDraft              Status = "DRAFT"
	StatusSubmitted          Status = "SUBMITTED"
	StatusInReview           Status = "IN_REVIEW"
	StatusDocsPending        Status = "DOCS_PENDING"
	StatusCorrectionsPending Status = "CORRECTIONS_PENDING"
	StatusCounterOffered     Status = "COUNTER_OFFERED"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusCancelled          Status = "CANCELLED"
	StatusDisbursed          Status = "DISBURSED"
	StatusSynced             Status = "SYNCED"
)

// Acciones de la línea de tiempo. STATUS_CHANGE duplica el historial de estados;
// el resto son eventos narrativos que no cambian el estado.
const (
	ActionStatusChange   = "STATUS_CHANGE"
	ActionDocUploaded    = "DOC_UPLOADED"
	ActionDocReviewed    = "DOC_REVIEWED"
	ActionDataCorrection = "DATA_CORRECTION"
	ActionCounterOffer   = "COUNTER_OFFER"
	ActionReferenceAdded = "REFERENCE_ADDED"
)

// StatusChange una entrada del historial de estados.
type StatusChange struct {
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Reason    string    `json:"reason"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TimelineEntry una entrada de la línea de tiempo (superconjunto del historial de estados).
type TimelineEntry struct {
	Action    string         `json:"action"`
	Payload   map[string]any `json:"payload,omitempty"`
	ActorID   string         `json:"actor_id"`
	Timestamp time.Time      `json:"timestamp"`
}

// StatusLog historial de estados: log ordenado de solo-agregado. No expone
// referencias mutables a las entradas; la única mutación permitida es Append.
type StatusLog struct {
	entries []StatusChange
}

// Append agrega una entrada al final del log.
func (l *StatusLog) Append(e StatusChange) {
	l.entries = append(l.entries, e)
}

// Entries devuelve una copia de las entradas en orden de inserción.
func (l *StatusLog) Entries() []StatusChange {
	out := make([]StatusChange, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last devuelve la última entrada, si existe.
func (l *StatusLog) Last() (StatusChange, bool) {
	if len(l.entries) == 0 {
		return StatusChange{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len cantidad de entradas.
func (l *StatusLog) Len() int { return len(l.entries) }

// MarshalJSON serializa el log como arreglo plano (columna JSONB).
func (l StatusLog) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON restaura el log desde el arreglo persistido.
func (l *StatusLog) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &l.entries)
}

// Timeline línea de tiempo: log ordenado de solo-agregado, nunca se reescribe.
type Timeline struct {
	entries []TimelineEntry
}

// Append agrega una entrada al final.
func (t *Timeline) Append(e TimelineEntry) {
	t.entries = append(t.entries, e)
}

// Entries devuelve una copia de las entradas en orden de inserción.
func (t *Timeline) Entries() []TimelineEntry {
	out := make([]TimelineEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len cantidad de entradas.
func (t *Timeline) Len() int { return len(t.entries) }

// MarshalJSON serializa la línea de tiempo como arreglo plano (columna JSONB).
func (t Timeline) MarshalJSON() ([]byte, error) {
	if t.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.entries)
}

// UnmarshalJSON restaura la línea de tiempo desde el arreglo persistido.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.entries)
}

// Application una solicitud de crédito. Invariante: la última entrada de
// StatusHistory siempre tiene To igual a Status.
type Application struct {
	ID              string
	TenantID        string
	ApplicantID     string
	Status          Status
	Purpose         string
	RequestedAmount decimal.Decimal
	TermMonths      int
	MonthlyRate     decimal.Decimal
	ApprovedAmount  decimal.Decimal // cero hasta aprobación
	CounterAmount   decimal.Decimal // términos de contraoferta (cero si no hay)
	CounterTerm     int
	CounterRate     decimal.Decimal
	StatusHistory   StatusLog
	Timeline        Timeline
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal indica si el estado no admite más transiciones.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusSynced:
		return true
	}
	return false
}
