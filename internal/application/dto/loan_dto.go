package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// CreateApplicationRequest alta de una solicitud de crédito (queda en DRAFT).
type CreateApplicationRequest struct {
	Purpose         string          `json:"purpose"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	TermMonths      int             `json:"term_months"`
	MonthlyRate     decimal.Decimal `json:"monthly_rate"`
}

// CancelRequest cancelación con motivo opcional.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// StatusChangeRequest cambio de estado manual del revisor (con motivo).
type StatusChangeRequest struct {
	Reason string `json:"reason"`
}

// CounterOfferRequest términos de una contraoferta.
type CounterOfferRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"term_months"`
	Rate       decimal.Decimal `json:"rate"`
	Reason     string          `json:"reason"`
}

// ApproveRequest aprobación con monto final opcional (vacío = monto solicitado).
type ApproveRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// ApplicationResponse solicitud para el cliente.
type ApplicationResponse struct {
	ID              string                `json:"id"`
	ApplicantID     string                `json:"applicant_id"`
	Status          entity.Status         `json:"status"`
	Purpose         string                `json:"purpose"`
	RequestedAmount decimal.Decimal       `json:"requested_amount"`
	TermMonths      int                   `json:"term_months"`
	MonthlyRate     decimal.Decimal       `json:"monthly_rate"`
	ApprovedAmount  decimal.Decimal       `json:"approved_amount"`
	CounterAmount   decimal.Decimal       `json:"counter_amount"`
	CounterTerm     int                   `json:"counter_term"`
	CounterRate     decimal.Decimal       `json:"counter_rate"`
	StatusHistory   []entity.StatusChange `json:"status_history"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TimelineResponse línea de tiempo de una solicitud.
type TimelineResponse struct {
	ApplicationID string                 `json:"application_id"`
	Entries       []entity.TimelineEntry `json:"entries"`
}

// ToApplicationResponse convierte la entidad a DTO.
func ToApplicationResponse(app *entity.Application) *ApplicationResponse {
	if app == nil {
		return nil
	}
	return &ApplicationResponse{
		ID:              app.ID,
		ApplicantID:     app.ApplicantID,
		Status:          app.Status,
		Purpose:         app.Purpose,
		RequestedAmount: app.RequestedAmount,
		TermMonths:      app.TermMonths,
		MonthlyRate:     app.MonthlyRate,
		ApprovedAmount:  app.ApprovedAmount,
		CounterAmount:   app.CounterAmount,
		CounterTerm:     app.CounterTerm,
		CounterRate:     app.CounterRate,
		StatusHistory:   app.StatusHistory.Entries(),
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}
