// Package documents gestiona la carga y revisión de documentos: el archivo va
// al almacenamiento de objetos y los metadatos a la BD; la revisión alimenta la
// compuerta del reconciliador de correcciones.
package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// UseCase casos de uso de documentos.
type UseCase struct {
	txRunner corrections.TxRunner
	docRepo  repository.DocumentRepository
	appRepo  repository.ApplicationRepository
	storage  ports.FileStorage
	recon    *corrections.Reconciler
	notifier ports.Notifier
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner corrections.TxRunner,
	docRepo repository.DocumentRepository,
	appRepo repository.ApplicationRepository,
	storage ports.FileStorage,
	recon *corrections.Reconciler,
	notifier ports.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		docRepo:  docRepo,
		appRepo:  appRepo,
		storage:  storage,
		recon:    recon,
		notifier: notifier,
		log:      log,
	}
}

// Upload sube el archivo al almacenamiento y registra los metadatos y la
// entrada DOC_UPLOADED de la línea de tiempo en una transacción. Si la BD
// falla, el objeto recién subido se elimina (rollback de almacenamiento).
// Volver a cargar un documento rechazado crea una fila nueva en PENDING; el
// registro del rechazo sobrevive hasta que el documento nuevo sea aprobado.
func (uc *UseCase) Upload(ctx context.Context, tenantID, applicationID, docType, fileName, contentType string, size int64, r io.Reader, actorID string) (*dto.DocumentResponse, error) {
	if docType == "" || r == nil {
		return nil, domain.ErrInvalidInput
	}
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}

	key := filepath.ToSlash(filepath.Join("documentos", uuid.New().String()+filepath.Ext(fileName)))
	if err := uc.storage.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("subir a almacenamiento: %w", err)
	}

	now := time.Now()
	doc := &entity.Document{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ApplicationID: applicationID,
		Type:          entity.DocumentType(docType),
		Status:        entity.DocumentPending,
		FileName:      fileName,
		StorageKey:    key,
		ContentType:   contentType,
		Size:          size,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.RunApplicant(ctx, app.ApplicantID, func(r corrections.Repos) error {
		if err := r.Documents.Create(doc); err != nil {
			return err
		}
		fresh, err := r.Applications.GetByID(applicationID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrNotFound
		}
		fresh.Timeline.Append(entity.TimelineEntry{
			Action: entity.ActionDocUploaded,
			Payload: map[string]any{
				"document_id":   doc.ID,
				"document_type": string(doc.Type),
				"label":         doc.Type.Label(),
				"file_name":     fileName,
			},
			ActorID:   actorID,
			Timestamp: now,
		})
		fresh.UpdatedAt = now
		if err := r.Applications.Update(fresh); err != nil {
			return err
		}
		return r.Audit.Append(&entity.AuditEvent{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Action:     "document.uploaded",
			ActorID:    actorID,
			EntityType: "document",
			EntityID:   doc.ID,
			Payload: map[string]any{
				"application_id": applicationID,
				"document_type":  string(doc.Type),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		// Rollback de almacenamiento: el objeto quedó huérfano.
		if delErr := uc.storage.Delete(ctx, key); delErr != nil {
			uc.log.Error().Err(delErr).Str("key", key).Msg("rollback de almacenamiento falló")
		}
		return nil, err
	}

	uc.notifier.Publish("DocumentUploaded", map[string]any{
		"application_id": applicationID,
		"tenant_id":      tenantID,
		"document_type":  string(doc.Type),
	})
	return toDocumentResponse(doc), nil
}

// Approve aprueba el documento y marca como superados los rechazos previos del
// mismo tipo canónico; después reconcilia el ciclo de correcciones del
// solicitante (la aprobación puede ser el último rechazo pendiente).
func (uc *UseCase) Approve(ctx context.Context, tenantID, docID, actorID string) (*dto.DocumentResponse, error) {
	doc, app, err := uc.getOwnedWithApplication(tenantID, docID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	err = uc.txRunner.RunApplicant(ctx, app.ApplicantID, func(r corrections.Repos) error {
		fresh, err := r.Documents.GetByID(docID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrNotFound
		}
		fresh.Status = entity.DocumentApproved
		fresh.ReviewedAt = &now
		fresh.ReviewedBy = actorID
		fresh.UpdatedAt = now
		if err := r.Documents.Update(fresh); err != nil {
			return err
		}
		// El documento aprobado cubre los rechazos anteriores del mismo tipo.
		if err := r.Documents.SupersedeRejected(fresh.ApplicationID, fresh.Type.Canonical()); err != nil {
			return err
		}
		if err := appendReviewTimeline(r, fresh, "APPROVED", "", actorID, now); err != nil {
			return err
		}
		if err := r.Audit.Append(&entity.AuditEvent{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Action:     "document.approved",
			ActorID:    actorID,
			EntityType: "document",
			EntityID:   fresh.ID,
			Payload:    map[string]any{"document_type": string(fresh.Type)},
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		doc = fresh
		_, err = uc.recon.Reconcile(r, app.ApplicantID, actorID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish("DocumentReviewed", map[string]any{
		"document_id": docID,
		"tenant_id":   tenantID,
		"status":      string(entity.DocumentApproved),
	})
	return toDocumentResponse(doc), nil
}

// Reject rechaza el documento con motivo. El solicitante puede volver a cargar;
// este registro bloquea la reconciliación hasta que un documento nuevo del
// mismo tipo sea aprobado.
func (uc *UseCase) Reject(ctx context.Context, tenantID, docID, reason, actorID string) (*dto.DocumentResponse, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, app, err := uc.getOwnedWithApplication(tenantID, docID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	err = uc.txRunner.RunApplicant(ctx, app.ApplicantID, func(r corrections.Repos) error {
		fresh, err := r.Documents.GetByID(docID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrNotFound
		}
		fresh.Status = entity.DocumentRejected
		fresh.RejectionReason = reason
		fresh.ReviewedAt = &now
		fresh.ReviewedBy = actorID
		fresh.UpdatedAt = now
		if err := r.Documents.Update(fresh); err != nil {
			return err
		}
		if err := appendReviewTimeline(r, fresh, "REJECTED", reason, actorID, now); err != nil {
			return err
		}
		doc = fresh
		return r.Audit.Append(&entity.AuditEvent{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			Action:     "document.rejected",
			ActorID:    actorID,
			EntityType: "document",
			EntityID:   fresh.ID,
			Payload: map[string]any{
				"document_type": string(fresh.Type),
				"reason":        reason,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish("DocumentReviewed", map[string]any{
		"document_id": docID,
		"tenant_id":   tenantID,
		"status":      string(entity.DocumentRejected),
	})
	return toDocumentResponse(doc), nil
}

// List lista los documentos de una solicitud.
func (uc *UseCase) List(ctx context.Context, tenantID, applicationID string) ([]*dto.DocumentResponse, error) {
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	docs, err := uc.docRepo.ListByApplication(applicationID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out, nil
}

// PresignDownload genera una URL temporal de descarga del archivo.
func (uc *UseCase) PresignDownload(ctx context.Context, tenantID, docID string, expiry time.Duration) (string, error) {
	doc, _, err := uc.getOwnedWithApplication(tenantID, docID)
	if err != nil {
		return "", err
	}
	return uc.storage.PresignGet(ctx, doc.StorageKey, expiry)
}

func (uc *UseCase) getOwnedWithApplication(tenantID, docID string) (*entity.Document, *entity.Application, error) {
	doc, err := uc.docRepo.GetByID(docID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil || doc.TenantID != tenantID {
		return nil, nil, domain.ErrNotFound
	}
	app, err := uc.appRepo.GetByID(doc.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, domain.ErrNotFound
	}
	return doc, app, nil
}

func appendReviewTimeline(r corrections.Repos, doc *entity.Document, outcome, reason, actorID string, now time.Time) error {
	app, err := r.Applications.GetByID(doc.ApplicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return domain.ErrNotFound
	}
	payload := map[string]any{
		"document_id":   doc.ID,
		"document_type": string(doc.Type),
		"label":         doc.Type.Label(),
		"outcome":       outcome,
	}
	if reason != "" {
		payload["reason"] = reason
	}
	app.Timeline.Append(entity.TimelineEntry{
		Action:    entity.ActionDocReviewed,
		Payload:   payload,
		ActorID:   actorID,
		Timestamp: now,
	})
	app.UpdatedAt = now
	return r.Applications.Update(app)
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	return &dto.DocumentResponse{
		ID:              d.ID,
		ApplicationID:   d.ApplicationID,
		Type:            string(d.Type),
		Label:           d.Type.Label(),
		Status:          string(d.Status),
		FileName:        d.FileName,
		ContentType:     d.ContentType,
		Size:            d.Size,
		RejectionReason: d.RejectionReason,
		ReviewedAt:      d.ReviewedAt,
		CreatedAt:       d.CreatedAt,
	}
}
