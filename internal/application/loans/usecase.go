package loans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// Motivo por defecto de una cancelación sin motivo del solicitante.
const defaultCancelReason = "Cancelled by applicant"

// Policy constantes de política de producto que afectan el envío.
type Policy struct {
	MinReferences int
	MaxReferences int
}

// UseCase casos de uso del ciclo de vida de la solicitud: creación, envío con
// verificación de completitud, cancelación y operaciones de revisión.
type UseCase struct {
	txRunner       TxRunner
	appRepo        repository.ApplicationRepository
	applicantRepo  repository.ApplicantRepository
	addressRepo    repository.AddressRepository
	employmentRepo repository.EmploymentRepository
	referenceRepo  repository.ReferenceRepository
	documentRepo   repository.DocumentRepository
	catalog        ports.ProductCatalog
	notifier       ports.Notifier
	geo            ports.Geolocator
	policy         Policy
	log            *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	appRepo repository.ApplicationRepository,
	applicantRepo repository.ApplicantRepository,
	addressRepo repository.AddressRepository,
	employmentRepo repository.EmploymentRepository,
	referenceRepo repository.ReferenceRepository,
	documentRepo repository.DocumentRepository,
	catalog ports.ProductCatalog,
	notifier ports.Notifier,
	geo ports.Geolocator,
	policy Policy,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		appRepo:        appRepo,
		applicantRepo:  applicantRepo,
		addressRepo:    addressRepo,
		employmentRepo: employmentRepo,
		referenceRepo:  referenceRepo,
		documentRepo:   documentRepo,
		catalog:        catalog,
		notifier:       notifier,
		geo:            geo,
		policy:         policy,
		log:            log,
	}
}

// Create crea una solicitud en DRAFT con su primera entrada de historial.
func (uc *UseCase) Create(ctx context.Context, tenantID, applicantID string, in dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	if in.Purpose == "" || !in.RequestedAmount.GreaterThan(decimal.Zero) || in.TermMonths <= 0 {
		return nil, domain.ErrInvalidInput
	}
	applicant, err := uc.applicantRepo.GetByID(applicantID)
	if err != nil {
		return nil, err
	}
	if applicant == nil || applicant.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	app := &entity.Application{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		ApplicantID:     applicantID,
		Status:          entity.StatusDraft,
		Purpose:         in.Purpose,
		RequestedAmount: in.RequestedAmount,
		TermMonths:      in.TermMonths,
		MonthlyRate:     in.MonthlyRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	app.StatusHistory.Append(entity.StatusChange{
		From:      "",
		To:        entity.StatusDraft,
		Reason:    "Solicitud creada",
		ActorID:   applicantID,
		Timestamp: now,
	})
	app.Timeline.Append(entity.TimelineEntry{
		Action:    entity.ActionStatusChange,
		Payload:   map[string]any{"from": "", "to": string(entity.StatusDraft), "reason": "Solicitud creada"},
		ActorID:   applicantID,
		Timestamp: now,
	})
	if err := uc.appRepo.Create(app); err != nil {
		return nil, err
	}
	return dto.ToApplicationResponse(app), nil
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

// Get devuelve una solicitud validando tenant.
func (uc *UseCase) Get(ctx context.Context, tenantID, id string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToApplicationResponse(app), nil
}

// ListByApplicant lista las solicitudes del solicitante.
func (uc *UseCase) ListByApplicant(ctx context.Context, tenantID, applicantID string) ([]*dto.ApplicationResponse, error) {
	apps, err := uc.appRepo.ListByApplicant(applicantID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		if app.TenantID != tenantID {
			continue
		}
		out = append(out, dto.ToApplicationResponse(app))
	}
	return out, nil
}

// Timeline devuelve la línea de tiempo de una solicitud.
func (uc *UseCase) Timeline(ctx context.Context, tenantID, id string) (*dto.TimelineResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return &dto.TimelineResponse{ApplicationID: app.ID, Entries: app.Timeline.Entries()}, nil
}

// History devuelve el historial de estados de una solicitud.
func (uc *UseCase) History(ctx context.Context, tenantID, id string) ([]entity.StatusChange, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return app.StatusHistory.Entries(), nil
}

// Submit verifica completitud y envía la solicitud (DRAFT|DOCS_PENDING -> SUBMITTED).
// Cada requisito faltante se reporta a la vez en un IncompleteDataError con mapa
// por campo; la transición solo procede con la verificación en limpio.
func (uc *UseCase) Submit(ctx context.Context, tenantID, id, actorID, ip string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	applicant, err := uc.applicantRepo.GetByID(app.ApplicantID)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, domain.ErrNotFound
	}
	address, err := uc.addressRepo.GetPrimaryHome(app.ApplicantID)
	if err != nil {
		return nil, err
	}
	employment, err := uc.employmentRepo.GetCurrent(app.ApplicantID)
	if err != nil {
		return nil, err
	}
	docs, err := uc.documentRepo.ListByApplication(app.ID)
	if err != nil {
		return nil, err
	}
	uploaded := make([]entity.DocumentType, 0, len(docs))
	for _, d := range docs {
		uploaded = append(uploaded, d.Type)
	}
	refCount, err := uc.referenceRepo.CountByApplication(app.ID)
	if err != nil {
		return nil, err
	}

	if err := workflow.CheckCompleteness(workflow.CompletenessInput{
		HasPersonalData: applicant.HasPersonalData(),
		HasAddress:      address != nil,
		HasEmployment:   employment != nil,
		HasSignature:    applicant.HasSignature(),
		HasPurpose:      app.Purpose != "",
		RequiredDocs:    uc.catalog.RequiredDocuments(tenantID, app.Purpose),
		UploadedDocs:    uploaded,
		ReferenceCount:  refCount,
		MinReferences:   uc.policy.MinReferences,
	}); err != nil {
		return nil, err
	}

	return uc.changeStatus(ctx, app, entity.StatusSubmitted, "Solicitud enviada", actorID, ip, nil)
}

// Cancel cancela la solicitud; el motivo vacío cae al default del solicitante.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, id, reason, actorID, ip string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = defaultCancelReason
	}
	return uc.changeStatus(ctx, app, entity.StatusCancelled, reason, actorID, ip, nil)
}

// StartReview toma la solicitud enviada para revisión (SUBMITTED -> IN_REVIEW).
func (uc *UseCase) StartReview(ctx context.Context, tenantID, id, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return uc.changeStatus(ctx, app, entity.StatusInReview, "Revisión iniciada", actorID, "", nil)
}

// RequestDocs pide documentos adicionales (IN_REVIEW -> DOCS_PENDING).
func (uc *UseCase) RequestDocs(ctx context.Context, tenantID, id, reason, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Documentos pendientes"
	}
	return uc.changeStatus(ctx, app, entity.StatusDocsPending, reason, actorID, "", nil)
}

// RequestCorrections abre el ciclo de correcciones (IN_REVIEW -> CORRECTIONS_PENDING).
// Los campos/documentos rechazados deben registrarse antes vía el módulo de
// correcciones; esta transición marca el inicio del ciclo en el historial.
func (uc *UseCase) RequestCorrections(ctx context.Context, tenantID, id, reason, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Se requieren correcciones"
	}
	return uc.changeStatus(ctx, app, entity.StatusCorrectionsPending, reason, actorID, "", nil)
}

// CounterOffer registra una contraoferta (IN_REVIEW -> COUNTER_OFFERED).
func (uc *UseCase) CounterOffer(ctx context.Context, tenantID, id string, in dto.CounterOfferRequest, actorID string) (*dto.ApplicationResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) || in.TermMonths <= 0 {
		return nil, domain.ErrInvalidInput
	}
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	app.CounterAmount = in.Amount
	app.CounterTerm = in.TermMonths
	app.CounterRate = in.Rate
	reason := in.Reason
	if reason == "" {
		reason = "Contraoferta emitida"
	}
	extra := map[string]any{
		"counter_amount": in.Amount.String(),
		"counter_term":   in.TermMonths,
		"counter_rate":   in.Rate.String(),
	}
	res, err := uc.changeStatus(ctx, app, entity.StatusCounterOffered, reason, actorID, "", extra)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AcceptCounterOffer aplica los términos de la contraoferta y regresa la
// solicitud a revisión (COUNTER_OFFERED -> IN_REVIEW).
func (uc *UseCase) AcceptCounterOffer(ctx context.Context, tenantID, id, actorID, ip string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if app.Status != entity.StatusCounterOffered {
		return nil, &workflow.IllegalTransitionError{From: app.Status, To: entity.StatusInReview}
	}
	app.RequestedAmount = app.CounterAmount
	app.TermMonths = app.CounterTerm
	app.MonthlyRate = app.CounterRate
	return uc.changeStatus(ctx, app, entity.StatusInReview, "Contraoferta aceptada", actorID, ip, nil)
}

// Approve aprueba la solicitud con el monto final.
func (uc *UseCase) Approve(ctx context.Context, tenantID, id string, in dto.ApproveRequest, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	amount := in.Amount
	if !amount.GreaterThan(decimal.Zero) {
		amount = app.RequestedAmount
	}
	app.ApprovedAmount = amount
	reason := in.Reason
	if reason == "" {
		reason = "Solicitud aprobada"
	}
	return uc.changeStatus(ctx, app, entity.StatusApproved, reason, actorID, "", map[string]any{"approved_amount": amount.String()})
}

// RejectApplication rechaza la solicitud con motivo (terminal).
func (uc *UseCase) RejectApplication(ctx context.Context, tenantID, id, reason, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.changeStatus(ctx, app, entity.StatusRejected, reason, actorID, "", nil)
}

// Disburse marca el desembolso (APPROVED -> DISBURSED).
func (uc *UseCase) Disburse(ctx context.Context, tenantID, id, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return uc.changeStatus(ctx, app, entity.StatusDisbursed, "Crédito desembolsado", actorID, "", nil)
}

// MarkSynced marca la sincronización con el core bancario (DISBURSED -> SYNCED).
func (uc *UseCase) MarkSynced(ctx context.Context, tenantID, id, actorID string) (*dto.ApplicationResponse, error) {
	app, err := uc.getOwned(tenantID, id)
	if err != nil {
		return nil, err
	}
	return uc.changeStatus(ctx, app, entity.StatusSynced, "Sincronizada con el core", actorID, "", nil)
}

// changeStatus ejecuta la transición dentro de una transacción (estado +
// historial + auditoría juntos) y publica el evento después del commit.
// workflow.ErrSameStatus se degrada a advertencia: la solicitud ya está donde
// se pedía (carrera con otro escritor) y no se toca nada.
func (uc *UseCase) changeStatus(ctx context.Context, app *entity.Application, to entity.Status, reason, actorID, ip string, extra map[string]any) (*dto.ApplicationResponse, error) {
	if ip != "" {
		if loc, ok := uc.geo.Locate(ip); ok {
			if extra == nil {
				extra = map[string]any{}
			}
			extra["location"] = loc
		}
	}
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(apps repository.ApplicationRepository, audit repository.AuditRepository) error {
		// Releer dentro de la tx para no pisar escrituras concurrentes.
		fresh, err := apps.GetByID(app.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrNotFound
		}
		// Conservar los términos mutados fuera de la tx (contraoferta, aprobación).
		fresh.RequestedAmount = app.RequestedAmount
		fresh.TermMonths = app.TermMonths
		fresh.MonthlyRate = app.MonthlyRate
		fresh.ApprovedAmount = app.ApprovedAmount
		fresh.CounterAmount = app.CounterAmount
		fresh.CounterTerm = app.CounterTerm
		fresh.CounterRate = app.CounterRate
		if err := ApplyChange(apps, audit, fresh, to, reason, actorID, now, extra); err != nil {
			return err
		}
		*app = *fresh
		return nil
	})
	if err != nil {
		if errors.Is(err, workflow.ErrSameStatus) {
			uc.log.Warn().
				Str("application_id", app.ID).
				Str("status", string(to)).
				Msg("transición al mismo estado ignorada")
			return dto.ToApplicationResponse(app), nil
		}
		return nil, err
	}
	uc.notifier.Publish("ApplicationStatusChanged", map[string]any{
		"application_id": app.ID,
		"tenant_id":      app.TenantID,
		"status":         string(to),
		"reason":         reason,
		"actor_id":       actorID,
	})
	return dto.ToApplicationResponse(app), nil
}

func (uc *UseCase) getOwned(tenantID, id string) (*entity.Application, error) {
	app, err := uc.appRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if app.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}
	return app, nil
}
