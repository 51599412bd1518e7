package dto

import (
	"encoding/json"
	"time"
)

// RejectFieldRequest rechazo de un campo por el revisor.
type RejectFieldRequest struct {
	FieldName string `json:"field_name"`
	Reason    string `json:"reason"`
}

// SubmitCorrectionRequest corrección enviada por el solicitante. NewValue puede
// ser un escalar JSON o un objeto compuesto según el campo.
type SubmitCorrectionRequest struct {
	FieldName string          `json:"field_name"`
	NewValue  json.RawMessage `json:"new_value"`
}

// VerificationResponse estado de verificación de un campo.
type VerificationResponse struct {
	ID              string     `json:"id"`
	FieldName       string     `json:"field_name"`
	Label           string     `json:"label"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	CorrectedAt     *time.Time `json:"corrected_at,omitempty"`
}

// CorrectionResult resultado de aplicar una corrección.
type CorrectionResult struct {
	FieldName    string            `json:"field_name"`
	Label        string            `json:"label"`
	Changes      map[string]string `json:"changes"`
	OldSummary   string            `json:"old_summary"`
	NewSummary   string            `json:"new_summary"`
	CycleClosed  bool              `json:"cycle_closed"`
	Transitioned []string          `json:"transitioned_applications,omitempty"`
}

// CorrectionHistoryItem entrada aplanada del historial de correcciones de todos
// los campos, anotada con la etiqueta resuelta.
type CorrectionHistoryItem struct {
	FieldName       string    `json:"field_name"`
	Label           string    `json:"label"`
	OldValue        string    `json:"old_value"`
	NewValue        string    `json:"new_value"`
	RejectionReason string    `json:"rejection_reason"`
	CorrectedBy     string    `json:"corrected_by"`
	CorrectedAt     time.Time `json:"corrected_at"`
}
