// Package onboarding captura del expediente del solicitante: perfil, domicilio,
// empleo, referencias y firma del consentimiento. Todo es pre-envío; la
// completitud se valida al enviar la solicitud, no aquí.
package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// Policy límites de producto que aplican durante la captura.
type Policy struct {
	MaxReferences int
}

// UseCase casos de uso de captura del expediente.
type UseCase struct {
	applicantRepo  repository.ApplicantRepository
	addressRepo    repository.AddressRepository
	employmentRepo repository.EmploymentRepository
	referenceRepo  repository.ReferenceRepository
	appRepo        repository.ApplicationRepository
	auditRepo      repository.AuditRepository
	policy         Policy
	log            *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	applicantRepo repository.ApplicantRepository,
	addressRepo repository.AddressRepository,
	employmentRepo repository.EmploymentRepository,
	referenceRepo repository.ReferenceRepository,
	appRepo repository.ApplicationRepository,
	auditRepo repository.AuditRepository,
	policy Policy,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		applicantRepo:  applicantRepo,
		addressRepo:    addressRepo,
		employmentRepo: employmentRepo,
		referenceRepo:  referenceRepo,
		appRepo:        appRepo,
		auditRepo:      auditRepo,
		policy:         policy,
		log:            log,
	}
}

// UpsertProfile crea el perfil del solicitante en el primer guardado y lo
// actualiza después. Un usuario tiene a lo más un perfil por tenant.
func (uc *UseCase) UpsertProfile(ctx context.Context, tenantID, userID string, req dto.ProfileRequest) (*dto.ProfileResponse, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName1) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	applicant, err := uc.applicantRepo.GetByUser(tenantID, userID)
	if err != nil {
		return nil, err
	}
	created := false
	if applicant == nil {
		created = true
		applicant = &entity.Applicant{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			UserID:    userID,
			Status:    "active",
			CreatedAt: now,
		}
	}
	applicant.FirstName = strings.TrimSpace(req.FirstName)
	applicant.LastName1 = strings.TrimSpace(req.LastName1)
	applicant.LastName2 = strings.TrimSpace(req.LastName2)
	applicant.CURP = strings.ToUpper(strings.TrimSpace(req.CURP))
	applicant.RFC = strings.ToUpper(strings.TrimSpace(req.RFC))
	applicant.INE = strings.TrimSpace(req.INE)
	applicant.BirthDate = strings.TrimSpace(req.BirthDate)
	applicant.Phone = strings.TrimSpace(req.Phone)
	applicant.Email = strings.ToLower(strings.TrimSpace(req.Email))
	applicant.UpdatedAt = now

	if created {
		err = uc.applicantRepo.Create(applicant)
	} else {
		err = uc.applicantRepo.Update(applicant)
	}
	if err != nil {
		return nil, err
	}
	uc.audit(tenantID, userID, "applicant.profile_saved", "applicant", applicant.ID, map[string]any{"created": created}, now)
	return toProfileResponse(applicant), nil
}

// GetProfile devuelve el perfil del usuario autenticado.
func (uc *UseCase) GetProfile(ctx context.Context, tenantID, userID string) (*dto.ProfileResponse, error) {
	applicant, err := uc.applicantRepo.GetByUser(tenantID, userID)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, domain.ErrNotFound
	}
	return toProfileResponse(applicant), nil
}

// SaveAddress guarda el domicilio principal del tipo dado (HOME por default).
// Un guardado nuevo reemplaza al principal anterior del mismo tipo.
func (uc *UseCase) SaveAddress(ctx context.Context, tenantID, userID string, req dto.AddressRequest) (*entity.Address, error) {
	applicant, err := uc.requireApplicant(tenantID, userID)
	if err != nil {
		return nil, err
	}
	addrType := strings.ToUpper(strings.TrimSpace(req.Type))
	if addrType == "" {
		addrType = entity.AddressTypeHome
	}
	if addrType != entity.AddressTypeHome && addrType != entity.AddressTypeWork {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.PostalCode) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	if err := uc.addressRepo.ClearPrimary(applicant.ID, addrType); err != nil {
		return nil, err
	}
	addr := &entity.Address{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		ApplicantID:  applicant.ID,
		Type:         addrType,
		IsPrimary:    true,
		Street:       strings.TrimSpace(req.Street),
		ExtNumber:    strings.TrimSpace(req.ExtNumber),
		IntNumber:    strings.TrimSpace(req.IntNumber),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Municipality: strings.TrimSpace(req.Municipality),
		State:        strings.TrimSpace(req.State),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.addressRepo.Create(addr); err != nil {
		return nil, err
	}
	uc.audit(tenantID, userID, "applicant.address_saved", "address", addr.ID, map[string]any{"type": addrType}, now)
	return addr, nil
}

// SaveEmployment guarda el registro laboral vigente; el anterior deja de ser
// vigente pero se conserva como histórico.
func (uc *UseCase) SaveEmployment(ctx context.Context, tenantID, userID string, req dto.EmploymentRequest) (*entity.EmploymentRecord, error) {
	applicant, err := uc.requireApplicant(tenantID, userID)
	if err != nil {
		return nil, err
	}
	income, err := decimal.NewFromString(strings.TrimSpace(req.MonthlyIncome))
	if err != nil || income.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	if err := uc.employmentRepo.ClearCurrent(applicant.ID); err != nil {
		return nil, err
	}
	rec := &entity.EmploymentRecord{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ApplicantID:   applicant.ID,
		Current:       true,
		Type:          entity.ParseEmploymentType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Company:       strings.TrimSpace(req.Company),
		Position:      strings.TrimSpace(req.Position),
		MonthlyIncome: income,
		TenureMonths:  req.TenureMonths,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.employmentRepo.Create(rec); err != nil {
		return nil, err
	}
	uc.audit(tenantID, userID, "applicant.employment_saved", "employment", rec.ID, map[string]any{"type": string(rec.Type)}, now)
	return rec, nil
}

// AddReference agrega una referencia personal a la solicitud. El máximo por
// solicitud viene de la política de producto.
func (uc *UseCase) AddReference(ctx context.Context, tenantID, userID, applicationID string, req dto.ReferenceRequest) (*entity.Reference, error) {
	applicant, err := uc.requireApplicant(tenantID, userID)
	if err != nil {
		return nil, err
	}
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.TenantID != tenantID || app.ApplicantID != applicant.ID {
		return nil, domain.ErrNotFound
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, domain.ErrInvalidInput
	}
	count, err := uc.referenceRepo.CountByApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if count >= uc.policy.MaxReferences {
		return nil, domain.ErrTooManyReferences
	}

	now := time.Now()
	ref := &entity.Reference{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ApplicationID: applicationID,
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Relationship:  strings.TrimSpace(req.Relationship),
		CreatedAt:     now,
	}
	if err := uc.referenceRepo.Create(ref); err != nil {
		return nil, err
	}

	app.Timeline.Append(entity.TimelineEntry{
		Action:    entity.ActionReferenceAdded,
		Payload:   map[string]any{"reference_id": ref.ID, "name": ref.Name},
		ActorID:   userID,
		Timestamp: now,
	})
	app.UpdatedAt = now
	if err := uc.appRepo.Update(app); err != nil {
		return nil, err
	}
	uc.audit(tenantID, userID, "application.reference_added", "application", applicationID, map[string]any{"reference_id": ref.ID}, now)
	return ref, nil
}

// ListReferences lista las referencias de una solicitud del solicitante.
func (uc *UseCase) ListReferences(ctx context.Context, tenantID, userID, applicationID string) ([]*entity.Reference, error) {
	applicant, err := uc.requireApplicant(tenantID, userID)
	if err != nil {
		return nil, err
	}
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.TenantID != tenantID || app.ApplicantID != applicant.ID {
		return nil, domain.ErrNotFound
	}
	return uc.referenceRepo.ListByApplication(applicationID)
}

// Sign registra la firma del consentimiento. Firmar dos veces es idempotente:
// la primera marca de tiempo se conserva.
func (uc *UseCase) Sign(ctx context.Context, tenantID, userID string) (*dto.ProfileResponse, error) {
	applicant, err := uc.requireApplicant(tenantID, userID)
	if err != nil {
		return nil, err
	}
	if applicant.SignedAt == nil {
		now := time.Now()
		applicant.SignedAt = &now
		applicant.UpdatedAt = now
		if err := uc.applicantRepo.Update(applicant); err != nil {
			return nil, err
		}
		uc.audit(tenantID, userID, "applicant.signed", "applicant", applicant.ID, nil, now)
	}
	return toProfileResponse(applicant), nil
}

func (uc *UseCase) requireApplicant(tenantID, userID string) (*entity.Applicant, error) {
	applicant, err := uc.applicantRepo.GetByUser(tenantID, userID)
	if err != nil {
		return nil, err
	}
	if applicant == nil {
		return nil, domain.ErrNotFound
	}
	return applicant, nil
}

// audit registra el evento; en captura el registro es best-effort y un fallo
// del log no revierte el guardado.
func (uc *UseCase) audit(tenantID, actorID, action, entityType, entityID string, payload map[string]any, now time.Time) {
	err := uc.auditRepo.Append(&entity.AuditEvent{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Action:     action,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		CreatedAt:  now,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo registrar auditoría")
	}
}

func toProfileResponse(a *entity.Applicant) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName1: a.LastName1,
		LastName2: a.LastName2,
		CURP:      a.CURP,
		RFC:       a.RFC,
		INE:       a.INE,
		BirthDate: a.BirthDate,
		Phone:     a.Phone,
		Email:     a.Email,
		SignedAt:  a.SignedAt,
		Status:    a.Status,
	}
}
