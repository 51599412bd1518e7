// Package corrections implementa el flujo de corrección de datos: rechazo de
// campos por el revisor, corrección por el solicitante y la reconciliación que
// detecta el cierre del ciclo a través de todas las solicitudes del solicitante.
package corrections

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/diff"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/fieldrouter"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// UseCase casos de uso de verificación y corrección de campos.
type UseCase struct {
	txRunner      TxRunner
	verRepo       repository.DataVerificationRepository
	applicantRepo repository.ApplicantRepository
	reconciler    *Reconciler
	notifier      ports.Notifier
	geo           ports.Geolocator
	fullNameLabel string
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	verRepo repository.DataVerificationRepository,
	applicantRepo repository.ApplicantRepository,
	reconciler *Reconciler,
	notifier ports.Notifier,
	geo ports.Geolocator,
	fullNameLabel string,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		verRepo:       verRepo,
		applicantRepo: applicantRepo,
		reconciler:    reconciler,
		notifier:      notifier,
		geo:           geo,
		fullNameLabel: fullNameLabel,
		log:           log,
	}
}

// ResolveApplicant devuelve el ID del perfil del usuario autenticado.
func (uc *UseCase) ResolveApplicant(ctx context.Context, tenantID, userID string) (string, error) {
	applicant, err := uc.applicantRepo.GetByUser(tenantID, userID)
	if err != nil {
		return "", err
	}
	if applicant == nil {
		return "", domain.ErrNotFound
	}
	return applicant.ID, nil
}

// RejectField crea o actualiza la verificación del campo a REJECTED (creación
// perezosa: la fila nace en el primer rechazo). Snapshotea el valor vigente en
// FieldValue para auditoría posterior. Falla con ErrFieldNotVerifiable si el
// campo no pertenece al enum reconocido.
func (uc *UseCase) RejectField(ctx context.Context, tenantID, applicantID string, field entity.FieldName, reason, actorID string) (*dto.VerificationResponse, error) {
	if !fieldrouter.IsVerifiable(field) {
		return nil, domain.ErrFieldNotVerifiable
	}
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var result *entity.DataVerification
	err := uc.txRunner.RunApplicant(ctx, applicantID, func(r Repos) error {
		applicant, err := r.Applicants.GetByID(applicantID)
		if err != nil {
			return err
		}
		if applicant == nil || applicant.TenantID != tenantID {
			return domain.ErrNotFound
		}
		address, err := r.Addresses.GetPrimaryHome(applicantID)
		if err != nil {
			return err
		}
		employment, err := r.Employments.GetCurrent(applicantID)
		if err != nil {
			return err
		}
		snapshot := fieldrouter.Serialize(fieldrouter.CurrentValue(fieldrouter.Records{
			Applicant:  applicant,
			Address:    address,
			Employment: employment,
		}, field))

		v, err := r.Verifications.GetByApplicantAndField(applicantID, field)
		if err != nil {
			return err
		}
		if v == nil {
			v = &entity.DataVerification{
				ID:          uuid.New().String(),
				TenantID:    tenantID,
				ApplicantID: applicantID,
				FieldName:   field,
				CreatedAt:   now,
			}
			v.Status = entity.VerificationRejected
			v.FieldValue = snapshot
			v.RejectionReason = reason
			v.RejectedAt = &now
			v.UpdatedAt = now
			if err := r.Verifications.Create(v); err != nil {
				return err
			}
		} else {
			v.Status = entity.VerificationRejected
			v.FieldValue = snapshot
			v.RejectionReason = reason
			v.RejectedAt = &now
			v.UpdatedAt = now
			if err := r.Verifications.Update(v); err != nil {
				return err
			}
		}
		result = v
		return r.Audit.Append(&entity.AuditEvent{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Action:     "verification.rejected",
			ActorID:    actorID,
			EntityType: "data_verification",
			EntityID:   v.ID,
			Payload: map[string]any{
				"field_name": string(field),
				"reason":     reason,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish("DataVerificationRejected", map[string]any{
		"applicant_id": applicantID,
		"tenant_id":    tenantID,
		"field_name":   string(field),
		"reason":       reason,
	})
	return toVerificationResponse(result), nil
}

// SubmitCorrection aplica una corrección del solicitante sobre un campo
// rechazado, registra el cambio en el historial y reconcilia el ciclo. Todo el
// flujo corre bajo la transacción serializada por solicitante; reintentarlo es
// seguro: sin fila REJECTED la operación es un no-op (ErrNoPendingCorrection)
// y no agrega nada al historial.
func (uc *UseCase) SubmitCorrection(ctx context.Context, tenantID, applicantID string, in dto.SubmitCorrectionRequest, actorID, ip string) (*dto.CorrectionResult, error) {
	if in.FieldName == "" || len(in.NewValue) == 0 {
		return nil, domain.ErrInvalidInput
	}
	field := entity.FieldName(in.FieldName)
	if !fieldrouter.IsVerifiable(field) {
		return nil, domain.ErrFieldNotVerifiable
	}
	var newValue any
	if err := json.Unmarshal(in.NewValue, &newValue); err != nil || newValue == nil {
		return nil, domain.ErrInvalidInput
	}

	// Ubicación aproximada antes de la tx: best-effort, nunca bloquea ni falla.
	var location string
	if ip != "" {
		location, _ = uc.geo.Locate(ip)
	}

	now := time.Now()
	result := &dto.CorrectionResult{
		FieldName: string(field),
		Label:     fieldrouter.Label(field),
	}
	err := uc.txRunner.RunApplicant(ctx, applicantID, func(r Repos) error {
		applicant, err := r.Applicants.GetByID(applicantID)
		if err != nil {
			return err
		}
		if applicant == nil || applicant.TenantID != tenantID {
			return domain.ErrNotFound
		}
		v, err := r.Verifications.GetByApplicantAndField(applicantID, field)
		if err != nil {
			return err
		}
		if v == nil || v.Status != entity.VerificationRejected {
			return domain.ErrNoPendingCorrection
		}

		address, err := r.Addresses.GetPrimaryHome(applicantID)
		if err != nil {
			return err
		}
		employment, err := r.Employments.GetCurrent(applicantID)
		if err != nil {
			return err
		}
		records := fieldrouter.Records{
			Applicant:  applicant,
			Address:    address,
			Employment: employment,
		}

		oldValue, applied, err := fieldrouter.ApplyCorrection(records, field, newValue, v.FieldValue)
		if err != nil {
			return err
		}
		if !applied {
			return domain.ErrAddressMissing
		}

		// Persistir el registro mutado según el destino del campo.
		c, _ := fieldrouter.Lookup(field)
		switch c.Target {
		case fieldrouter.TargetAddress:
			if err := r.Addresses.Update(address); err != nil {
				return err
			}
		case fieldrouter.TargetEmployment:
			if err := r.Employments.Update(employment); err != nil {
				return err
			}
		default:
			applicant.UpdatedAt = now
			if err := r.Applicants.Update(applicant); err != nil {
				return err
			}
		}

		changes := diff.Diff(oldValue, newValue, field)
		oldSerialized := fieldrouter.Serialize(oldValue)
		newSerialized := fieldrouter.Serialize(newValue)

		v.History.Append(entity.CorrectionEntry{
			OldValue:        oldSerialized,
			NewValue:        newSerialized,
			RejectionReason: v.RejectionReason,
			CorrectedBy:     actorID,
			CorrectedAt:     now,
		})
		v.Status = entity.VerificationCorrected
		v.CorrectedAt = &now
		v.FieldValue = newSerialized
		v.UpdatedAt = now
		if err := r.Verifications.Update(v); err != nil {
			return err
		}

		result.Changes = changes
		result.OldSummary = diff.FormatSummary(oldValue)
		result.NewSummary = diff.FormatSummary(newValue)

		// Entrada narrativa en las solicitudes con correcciones pendientes.
		payload := map[string]any{
			"field_name":  string(field),
			"label":       fieldrouter.Label(field),
			"changes":     changes,
			"old_summary": result.OldSummary,
			"new_summary": result.NewSummary,
		}
		if location != "" {
			payload["location"] = location
		}
		pending, err := r.Applications.ListByApplicantAndStatus(applicantID, entity.StatusCorrectionsPending)
		if err != nil {
			return err
		}
		for _, app := range pending {
			app.Timeline.Append(entity.TimelineEntry{
				Action:    entity.ActionDataCorrection,
				Payload:   payload,
				ActorID:   actorID,
				Timestamp: now,
			})
			app.UpdatedAt = now
			if err := r.Applications.Update(app); err != nil {
				return err
			}
		}

		if err := r.Audit.Append(&entity.AuditEvent{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Action:     "verification.corrected",
			ActorID:    actorID,
			EntityType: "data_verification",
			EntityID:   v.ID,
			Payload: map[string]any{
				"field_name": string(field),
				"old_value":  oldSerialized,
				"new_value":  newSerialized,
				"changes":    changes,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		advanced, err := uc.reconciler.Reconcile(r, applicantID, actorID, now)
		if err != nil {
			return err
		}
		result.CycleClosed = len(advanced) > 0
		result.Transitioned = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Publish("DataCorrectionSubmitted", map[string]any{
		"applicant_id": applicantID,
		"tenant_id":    tenantID,
		"field_name":   string(field),
		"cycle_closed": result.CycleClosed,
	})
	return result, nil
}

// ListRejected devuelve los campos actualmente rechazados del solicitante.
func (uc *UseCase) ListRejected(ctx context.Context, tenantID, applicantID string) ([]*dto.VerificationResponse, error) {
	rejected, err := uc.verRepo.ListRejected(applicantID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VerificationResponse, 0, len(rejected))
	for _, v := range rejected {
		if v.TenantID != tenantID {
			continue
		}
		out = append(out, toVerificationResponse(v))
	}
	return out, nil
}

// ListCorrectionHistory aplana el historial de correcciones de todos los campos
// del solicitante, anotando cada entrada con su etiqueta resuelta. Los tres
// sub-campos del nombre se reportan bajo la etiqueta única del grupo (el
// revisor rechaza el nombre completo, no sus partes). Orden ascendente por
// fecha de corrección.
func (uc *UseCase) ListCorrectionHistory(ctx context.Context, tenantID, applicantID string) ([]*dto.CorrectionHistoryItem, error) {
	verifications, err := uc.verRepo.ListByApplicant(applicantID)
	if err != nil {
		return nil, err
	}
	var out []*dto.CorrectionHistoryItem
	for _, v := range verifications {
		if v.TenantID != tenantID {
			continue
		}
		label := fieldrouter.Label(v.FieldName)
		if c, ok := fieldrouter.Lookup(v.FieldName); ok && c.NameGroup {
			label = uc.fullNameLabel
		}
		for _, e := range v.History.Entries() {
			out = append(out, &dto.CorrectionHistoryItem{
				FieldName:       string(v.FieldName),
				Label:           label,
				OldValue:        e.OldValue,
				NewValue:        e.NewValue,
				RejectionReason: e.RejectionReason,
				CorrectedBy:     e.CorrectedBy,
				CorrectedAt:     e.CorrectedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CorrectedAt.Before(out[j].CorrectedAt)
	})
	return out, nil
}

func toVerificationResponse(v *entity.DataVerification) *dto.VerificationResponse {
	if v == nil {
		return nil
	}
	return &dto.VerificationResponse{
		ID:              v.ID,
		FieldName:       string(v.FieldName),
		Label:           fieldrouter.Label(v.FieldName),
		Status:          string(v.Status),
		RejectionReason: v.RejectionReason,
		RejectedAt:      v.RejectedAt,
		CorrectedAt:     v.CorrectedAt,
	}
}
