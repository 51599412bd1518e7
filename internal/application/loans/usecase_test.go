package loans_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/application/loans"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria
// ──────────────────────────────────────────────────────────────────────────────

type world struct {
	applicant  *entity.Applicant
	address    *entity.Address
	employment *entity.EmploymentRecord
	apps       map[string]*entity.Application
	docs       []*entity.Document
	refCount   int
	audits     []*entity.AuditEvent
	required   []entity.DocumentType
}

type wApps struct{ w *world }

func (r *wApps) Create(app *entity.Application) error { r.w.apps[app.ID] = app; return nil }
func (r *wApps) GetByID(id string) (*entity.Application, error) {
	return r.w.apps[id], nil
}
func (r *wApps) ListByApplicant(applicantID string) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range r.w.apps {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *wApps) ListByApplicantAndStatus(applicantID string, status entity.Status) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range r.w.apps {
		if a.ApplicantID == applicantID && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *wApps) Update(app *entity.Application) error { return nil }

type wApplicants struct{ w *world }

func (r *wApplicants) Create(a *entity.Applicant) error { return nil }
func (r *wApplicants) GetByID(id string) (*entity.Applicant, error) {
	if r.w.applicant != nil && r.w.applicant.ID == id {
		return r.w.applicant, nil
	}
	return nil, nil
}
func (r *wApplicants) GetByUser(tenantID, userID string) (*entity.Applicant, error) {
	if r.w.applicant != nil && r.w.applicant.TenantID == tenantID && r.w.applicant.UserID == userID {
		return r.w.applicant, nil
	}
	return nil, nil
}
func (r *wApplicants) Update(a *entity.Applicant) error { return nil }

type wAddresses struct{ w *world }

func (r *wAddresses) Create(a *entity.Address) error { return nil }
func (r *wAddresses) GetPrimaryHome(applicantID string) (*entity.Address, error) {
	return r.w.address, nil
}
func (r *wAddresses) ListByApplicant(applicantID string) ([]*entity.Address, error) { return nil, nil }
func (r *wAddresses) Update(a *entity.Address) error                     { return nil }
func (r *wAddresses) ClearPrimary(applicantID, addressType string) error { return nil }

type wEmployments struct{ w *world }

func (r *wEmployments) Create(e *entity.EmploymentRecord) error { return nil }
func (r *wEmployments) GetCurrent(applicantID string) (*entity.EmploymentRecord, error) {
	return r.w.employment, nil
}
func (r *wEmployments) Update(e *entity.EmploymentRecord) error { return nil }
func (r *wEmployments) ClearCurrent(applicantID string) error   { return nil }

type wReferences struct{ w *world }

func (r *wReferences) Create(ref *entity.Reference) error { return nil }
func (r *wReferences) ListByApplication(applicationID string) ([]*entity.Reference, error) {
	return nil, nil
}
func (r *wReferences) CountByApplication(applicationID string) (int, error) {
	return r.w.refCount, nil
}

type wDocuments struct{ w *world }

func (r *wDocuments) Create(d *entity.Document) error { r.w.docs = append(r.w.docs, d); return nil }
func (r *wDocuments) GetByID(id string) (*entity.Document, error) { return nil, nil }
func (r *wDocuments) ListByApplication(applicationID string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.w.docs {
		if d.ApplicationID == applicationID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *wDocuments) ListRejectedByApplicant(applicantID string) ([]*entity.Document, error) {
	return nil, nil
}
func (r *wDocuments) Update(d *entity.Document) error { return nil }
func (r *wDocuments) SupersedeRejected(applicationID string, canonicalType entity.DocumentType) error {
	return nil
}

type wAudit struct{ w *world }

func (r *wAudit) Append(e *entity.AuditEvent) error {
	r.w.audits = append(r.w.audits, e)
	return nil
}
func (r *wAudit) ListByEntity(entityType, entityID string) ([]*entity.AuditEvent, error) {
	return nil, nil
}

type wTx struct{ w *world }

func (t *wTx) Run(ctx context.Context, fn func(apps repository.ApplicationRepository, audit repository.AuditRepository) error) error {
	return fn(&wApps{t.w}, &wAudit{t.w})
}

type wCatalog struct{ w *world }

func (c *wCatalog) RequiredDocuments(tenantID, purpose string) []entity.DocumentType {
	return c.w.required
}

type wNotifier struct{ events []string }

func (n *wNotifier) Publish(event string, payload map[string]any) {
	n.events = append(n.events, event)
}

type wGeo struct{}

func (wGeo) Locate(ip string) (string, bool) { return "", false }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantID    = "t1"
	applicantID = "apl-1"
	actorID     = "usr-1"
)

func newWorld() *world {
	now := time.Now()
	return &world{
		applicant: &entity.Applicant{
			ID:        applicantID,
			TenantID:  tenantID,
			UserID:    actorID,
			FirstName: "José",
			LastName1: "Gómez",
			CURP:      "GOMC800101HDFRRL01",
			BirthDate: "1980-01-01",
			Phone:     "5512345678",
			SignedAt:  &now,
		},
		address:    &entity.Address{ID: "dir-1", ApplicantID: applicantID},
		employment: &entity.EmploymentRecord{ID: "emp-1", ApplicantID: applicantID, Current: true},
		apps:       map[string]*entity.Application{},
		refCount:   2,
		required:   []entity.DocumentType{entity.DocIdentificacion},
	}
}

func newUseCase(w *world) (*loans.UseCase, *wNotifier) {
	notifier := &wNotifier{}
	uc := loans.NewUseCase(
		&wTx{w}, &wApps{w}, &wApplicants{w}, &wAddresses{w}, &wEmployments{w},
		&wReferences{w}, &wDocuments{w}, &wCatalog{w}, notifier, wGeo{},
		loans.Policy{MinReferences: 2, MaxReferences: 5},
		logger.Nop(),
	)
	return uc, notifier
}

func draftApp(w *world, id string) *entity.Application {
	app := &entity.Application{
		ID:          id,
		TenantID:    tenantID,
		ApplicantID: applicantID,
		Status:      entity.StatusDraft,
		Purpose:     "CONSUMO",
	}
	w.apps[id] = app
	return app
}

func uploadDoc(w *world, appID string, docType entity.DocumentType) {
	w.docs = append(w.docs, &entity.Document{
		ID:            "doc-" + string(docType),
		ApplicationID: appID,
		Type:          docType,
		Status:        entity.DocumentPending,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SolicitudEnBorradorConHistorialInicial(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)

	out, err := uc.Create(context.Background(), tenantID, applicantID, dto.CreateApplicationRequest{
		Purpose:         "CONSUMO",
		RequestedAmount: decimal.NewFromInt(50000),
		TermMonths:      24,
		MonthlyRate:     decimal.RequireFromString("0.035"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDraft, out.Status)
	require.Len(t, out.StatusHistory, 1)
	assert.Equal(t, entity.StatusDraft, out.StatusHistory[0].To)

	stored := w.apps[out.ID]
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Timeline.Len())
}

func TestCreate_EntradaInvalida(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	ctx := context.Background()

	_, err := uc.Create(ctx, tenantID, applicantID, dto.CreateApplicationRequest{
		RequestedAmount: decimal.NewFromInt(50000), TermMonths: 24,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin destino del crédito")

	_, err = uc.Create(ctx, tenantID, applicantID, dto.CreateApplicationRequest{
		Purpose: "CONSUMO", RequestedAmount: decimal.Zero, TermMonths: 24,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto no positivo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_ConExpedienteCompleto(t *testing.T) {
	w := newWorld()
	uc, notifier := newUseCase(w)
	draftApp(w, "app-1")
	uploadDoc(w, "app-1", entity.DocIdentificacion)

	out, err := uc.Submit(context.Background(), tenantID, "app-1", actorID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSubmitted, out.Status)
	assert.Equal(t, entity.StatusSubmitted, w.apps["app-1"].Status)
	require.Len(t, w.audits, 1)
	assert.Equal(t, "application.status_changed", w.audits[0].Action)
	assert.Contains(t, notifier.events, "ApplicationStatusChanged")
}

// El error de completitud reporta todos los requisitos faltantes a la vez y la
// solicitud no se mueve de DRAFT.
func TestSubmit_IncompletaReportaTodo(t *testing.T) {
	w := newWorld()
	w.applicant.SignedAt = nil
	w.address = nil
	w.refCount = 0
	uc, _ := newUseCase(w)
	draftApp(w, "app-1")

	_, err := uc.Submit(context.Background(), tenantID, "app-1", actorID, "")

	incomplete, ok := domain.AsIncompleteData(err)
	require.True(t, ok)
	assert.Contains(t, incomplete.Fields, "signature")
	assert.Contains(t, incomplete.Fields, "address")
	assert.Contains(t, incomplete.Fields, "references")
	assert.Contains(t, incomplete.Fields, "document_IDENTIFICACION")
	assert.Equal(t, entity.StatusDraft, w.apps["app-1"].Status)
	assert.Empty(t, w.audits)
}

// El documento cargado con alias satisface el requisito canónico del catálogo.
func TestSubmit_DocumentoAliasSatisfaceCatalogo(t *testing.T) {
	w := newWorld()
	w.required = []entity.DocumentType{entity.DocRFCConstancia}
	uc, _ := newUseCase(w)
	draftApp(w, "app-1")
	uploadDoc(w, "app-1", entity.DocRFC)

	_, err := uc.Submit(context.Background(), tenantID, "app-1", actorID, "")
	assert.NoError(t, err)
}

func TestSubmit_ReenvioDesdeDocsPendientes(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusDocsPending
	uploadDoc(w, "app-1", entity.DocIdentificacion)

	out, err := uc.Submit(context.Background(), tenantID, "app-1", actorID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSubmitted, out.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel y revisión
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_MotivoVacioCaeAlDefault(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	draftApp(w, "app-1")

	out, err := uc.Cancel(context.Background(), tenantID, "app-1", "", actorID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelled, out.Status)
	require.NotEmpty(t, out.StatusHistory)
	assert.Equal(t, "Cancelled by applicant", out.StatusHistory[len(out.StatusHistory)-1].Reason)
}

func TestCancel_DesdeEstadoTerminalEsIlegal(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusRejected

	_, err := uc.Cancel(context.Background(), tenantID, "app-1", "ya no lo quiero", actorID, "")
	var illegal *workflow.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, entity.StatusRejected, illegal.From)
}

func TestRejectApplication_RequiereMotivo(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusInReview

	_, err := uc.RejectApplication(context.Background(), tenantID, "app-1", "", actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_TenantAjenoEsForbidden(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	draftApp(w, "app-1")

	_, err := uc.Get(context.Background(), "otro-tenant", "app-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(context.Background(), tenantID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contraoferta
// ──────────────────────────────────────────────────────────────────────────────

func TestCounterOffer_YAceptacionAplicaTerminos(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusInReview
	app.RequestedAmount = decimal.NewFromInt(50000)
	app.TermMonths = 24

	_, err := uc.CounterOffer(context.Background(), tenantID, "app-1", dto.CounterOfferRequest{
		Amount:     decimal.NewFromInt(30000),
		TermMonths: 18,
		Rate:       decimal.RequireFromString("0.04"),
	}, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCounterOffered, w.apps["app-1"].Status)

	out, err := uc.AcceptCounterOffer(context.Background(), tenantID, "app-1", actorID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusInReview, out.Status)
	assert.True(t, out.RequestedAmount.Equal(decimal.NewFromInt(30000)), "la aceptación adopta el monto contraofertado")
	assert.Equal(t, 18, out.TermMonths)
}

func TestAcceptCounterOffer_SinContraofertaVigente(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusInReview

	_, err := uc.AcceptCounterOffer(context.Background(), tenantID, "app-1", actorID, "")
	var illegal *workflow.IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación y desembolso
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_SinMontoUsaElSolicitado(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusInReview
	app.RequestedAmount = decimal.NewFromInt(50000)

	out, err := uc.Approve(context.Background(), tenantID, "app-1", dto.ApproveRequest{}, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, out.Status)
	assert.True(t, out.ApprovedAmount.Equal(decimal.NewFromInt(50000)))
}

func TestDisburse_YMarkSynced(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)
	app := draftApp(w, "app-1")
	app.Status = entity.StatusApproved

	out, err := uc.Disburse(context.Background(), tenantID, "app-1", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDisbursed, out.Status)

	out, err = uc.MarkSynced(context.Background(), tenantID, "app-1", actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSynced, out.Status)

	_, err = uc.Disburse(context.Background(), tenantID, "app-1", actorID)
	var illegal *workflow.IllegalTransitionError
	assert.ErrorAs(t, err, &illegal, "SYNCED es terminal")
}

func TestResolveApplicant(t *testing.T) {
	w := newWorld()
	uc, _ := newUseCase(w)

	id, err := uc.ResolveApplicant(context.Background(), tenantID, actorID)
	require.NoError(t, err)
	assert.Equal(t, applicantID, id)

	_, err = uc.ResolveApplicant(context.Background(), tenantID, "usr-desconocido")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
