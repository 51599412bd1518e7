package dto

import "time"

// DocumentReviewRequest revisión de un documento (rechazo lleva motivo).
type DocumentReviewRequest struct {
	Reason string `json:"reason"`
}

// DocumentResponse documento cargado.
type DocumentResponse struct {
	ID              string     `json:"id"`
	ApplicationID   string     `json:"application_id"`
	Type            string     `json:"type"`
	Label           string     `json:"label"`
	Status          string     `json:"status"`
	FileName        string     `json:"file_name"`
	ContentType     string     `json:"content_type"`
	Size            int64      `json:"size"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
