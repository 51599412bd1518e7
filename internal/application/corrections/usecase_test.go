package corrections_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/dto"
	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	applicants    map[string]*entity.Applicant
	addresses     map[string]*entity.Address          // por solicitante
	employments   map[string]*entity.EmploymentRecord // por solicitante
	verifications []*entity.DataVerification
	applications  []*entity.Application
	documents     []*entity.Document
	audits        []*entity.AuditEvent
}

type memApplicants struct{ s *memStore }

func (r *memApplicants) Create(a *entity.Applicant) error { r.s.applicants[a.ID] = a; return nil }
func (r *memApplicants) GetByID(id string) (*entity.Applicant, error) {
	return r.s.applicants[id], nil
}
func (r *memApplicants) GetByUser(tenantID, userID string) (*entity.Applicant, error) {
	for _, a := range r.s.applicants {
		if a.TenantID == tenantID && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}
func (r *memApplicants) Update(a *entity.Applicant) error { return nil }

type memAddresses struct{ s *memStore }

func (r *memAddresses) Create(a *entity.Address) error { r.s.addresses[a.ApplicantID] = a; return nil }
func (r *memAddresses) GetPrimaryHome(applicantID string) (*entity.Address, error) {
	return r.s.addresses[applicantID], nil
}
func (r *memAddresses) ListByApplicant(applicantID string) ([]*entity.Address, error) {
	if a := r.s.addresses[applicantID]; a != nil {
		return []*entity.Address{a}, nil
	}
	return nil, nil
}
func (r *memAddresses) Update(a *entity.Address) error                     { return nil }
func (r *memAddresses) ClearPrimary(applicantID, addressType string) error { return nil }

type memEmployments struct{ s *memStore }

func (r *memEmployments) Create(e *entity.EmploymentRecord) error {
	r.s.employments[e.ApplicantID] = e
	return nil
}
func (r *memEmployments) GetCurrent(applicantID string) (*entity.EmploymentRecord, error) {
	return r.s.employments[applicantID], nil
}
func (r *memEmployments) Update(e *entity.EmploymentRecord) error { return nil }
func (r *memEmployments) ClearCurrent(applicantID string) error   { return nil }

type memVerifications struct{ s *memStore }

func (r *memVerifications) Create(v *entity.DataVerification) error {
	r.s.verifications = append(r.s.verifications, v)
	return nil
}
func (r *memVerifications) GetByApplicantAndField(applicantID string, field entity.FieldName) (*entity.DataVerification, error) {
	for _, v := range r.s.verifications {
		if v.ApplicantID == applicantID && v.FieldName == field {
			return v, nil
		}
	}
	return nil, nil
}
func (r *memVerifications) ListByApplicant(applicantID string) ([]*entity.DataVerification, error) {
	var out []*entity.DataVerification
	for _, v := range r.s.verifications {
		if v.ApplicantID == applicantID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (r *memVerifications) ListRejected(applicantID string) ([]*entity.DataVerification, error) {
	var out []*entity.DataVerification
	for _, v := range r.s.verifications {
		if v.ApplicantID == applicantID && v.Status == entity.VerificationRejected {
			out = append(out, v)
		}
	}
	return out, nil
}
func (r *memVerifications) Update(v *entity.DataVerification) error { return nil }

type memApplications struct{ s *memStore }

func (r *memApplications) Create(app *entity.Application) error {
	r.s.applications = append(r.s.applications, app)
	return nil
}
func (r *memApplications) GetByID(id string) (*entity.Application, error) {
	for _, a := range r.s.applications {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}
func (r *memApplications) ListByApplicant(applicantID string) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range r.s.applications {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *memApplications) ListByApplicantAndStatus(applicantID string, status entity.Status) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range r.s.applications {
		if a.ApplicantID == applicantID && a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *memApplications) Update(app *entity.Application) error { return nil }

type memDocuments struct{ s *memStore }

func (r *memDocuments) Create(d *entity.Document) error {
	r.s.documents = append(r.s.documents, d)
	return nil
}
func (r *memDocuments) GetByID(id string) (*entity.Document, error) {
	for _, d := range r.s.documents {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}
func (r *memDocuments) ListByApplication(applicationID string) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.s.documents {
		if d.ApplicationID == applicationID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *memDocuments) ListRejectedByApplicant(applicantID string) ([]*entity.Document, error) {
	owned := map[string]bool{}
	for _, a := range r.s.applications {
		if a.ApplicantID == applicantID {
			owned[a.ID] = true
		}
	}
	var out []*entity.Document
	for _, d := range r.s.documents {
		if owned[d.ApplicationID] && d.Status == entity.DocumentRejected && !d.Superseded {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *memDocuments) Update(d *entity.Document) error { return nil }
func (r *memDocuments) SupersedeRejected(applicationID string, canonicalType entity.DocumentType) error {
	for _, d := range r.s.documents {
		if d.ApplicationID == applicationID && d.Status == entity.DocumentRejected && d.Type.Canonical() == canonicalType {
			d.Superseded = true
		}
	}
	return nil
}

type memAudit struct{ s *memStore }

func (r *memAudit) Append(e *entity.AuditEvent) error {
	r.s.audits = append(r.s.audits, e)
	return nil
}
func (r *memAudit) ListByEntity(entityType, entityID string) ([]*entity.AuditEvent, error) {
	var out []*entity.AuditEvent
	for _, e := range r.s.audits {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memTx struct{ s *memStore }

func (t *memTx) RunApplicant(ctx context.Context, applicantID string, fn func(r corrections.Repos) error) error {
	return fn(reposFor(t.s))
}

func reposFor(s *memStore) corrections.Repos {
	return corrections.Repos{
		Applicants:    &memApplicants{s},
		Addresses:     &memAddresses{s},
		Employments:   &memEmployments{s},
		Verifications: &memVerifications{s},
		Applications:  &memApplications{s},
		Documents:     &memDocuments{s},
		Audit:         &memAudit{s},
	}
}

type memNotifier struct{ events []string }

func (n *memNotifier) Publish(event string, payload map[string]any) {
	n.events = append(n.events, event)
}

type memGeo struct{}

func (memGeo) Locate(ip string) (string, bool) { return "Ciudad de México, CDMX, México", true }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantID    = "t1"
	applicantID = "apl-1"
	analystID   = "usr-analista"
	ownerID     = "usr-solicitante"
)

// newFixture arma un solicitante con domicilio y empleo, y dos solicitudes en
// CORRECTIONS_PENDING cuyo ciclo inició hace una hora.
func newFixture(t *testing.T) (*memStore, *corrections.UseCase, *memNotifier) {
	t.Helper()
	cycleStart := time.Now().Add(-time.Hour)

	s := &memStore{
		applicants:  map[string]*entity.Applicant{},
		addresses:   map[string]*entity.Address{},
		employments: map[string]*entity.EmploymentRecord{},
	}
	s.applicants[applicantID] = &entity.Applicant{
		ID:        applicantID,
		TenantID:  tenantID,
		UserID:    ownerID,
		FirstName: "José",
		LastName1: "Gómez",
		LastName2: "Pérez",
		CURP:      "GOMC800101HDFRRL01",
		RFC:       "GOM800101ABC",
	}
	s.addresses[applicantID] = &entity.Address{
		ID:          "dir-1",
		ApplicantID: applicantID,
		Street:      "Reforma",
		ExtNumber:   "222",
		PostalCode:  "06600",
	}
	s.employments[applicantID] = &entity.EmploymentRecord{
		ID:          "emp-1",
		ApplicantID: applicantID,
		Current:     true,
		Type:        entity.EmploymentEmpleado,
		Company:     "Acme SA",
	}

	for _, id := range []string{"app-1", "app-2"} {
		app := &entity.Application{
			ID:          id,
			TenantID:    tenantID,
			ApplicantID: applicantID,
			Status:      entity.StatusCorrectionsPending,
		}
		app.StatusHistory.Append(entity.StatusChange{
			From:      entity.StatusInReview,
			To:        entity.StatusCorrectionsPending,
			Reason:    "Se requieren correcciones",
			ActorID:   analystID,
			Timestamp: cycleStart,
		})
		s.applications = append(s.applications, app)
	}

	notifier := &memNotifier{}
	log := logger.Nop()
	recon := corrections.NewReconciler("Nombre Completo", log)
	uc := corrections.NewUseCase(
		&memTx{s}, &memVerifications{s}, &memApplicants{s},
		recon, notifier, memGeo{}, "Nombre Completo", log,
	)
	return s, uc, notifier
}

func rejectField(t *testing.T, uc *corrections.UseCase, field entity.FieldName, reason string) {
	t.Helper()
	_, err := uc.RejectField(context.Background(), tenantID, applicantID, field, reason, analystID)
	require.NoError(t, err)
}

func submitCorrection(t *testing.T, uc *corrections.UseCase, field entity.FieldName, newValue string) *dto.CorrectionResult {
	t.Helper()
	out, err := uc.SubmitCorrection(context.Background(), tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: string(field),
		NewValue:  json.RawMessage(newValue),
	}, ownerID, "187.190.1.1")
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// RejectField
// ──────────────────────────────────────────────────────────────────────────────

func TestRejectField_CreaVerificacionPerezosaConSnapshot(t *testing.T) {
	s, uc, notifier := newFixture(t)

	out, err := uc.RejectField(context.Background(), tenantID, applicantID, entity.FieldCURP, "CURP no coincide con INE", analystID)
	require.NoError(t, err)

	assert.Equal(t, "CURP", out.FieldName)
	assert.Equal(t, "CURP", out.Label)
	assert.Equal(t, string(entity.VerificationRejected), out.Status)
	require.NotNil(t, out.RejectedAt)

	require.Len(t, s.verifications, 1)
	v := s.verifications[0]
	assert.Equal(t, "GOMC800101HDFRRL01", v.FieldValue, "snapshot del valor vigente")
	assert.Equal(t, "CURP no coincide con INE", v.RejectionReason)

	require.Len(t, s.audits, 1)
	assert.Equal(t, "verification.rejected", s.audits[0].Action)
	assert.Equal(t, []string{"DataVerificationRejected"}, notifier.events)
}

func TestRejectField_SegundoRechazoReutilizaLaFila(t *testing.T) {
	s, uc, _ := newFixture(t)

	rejectField(t, uc, entity.FieldCURP, "primer motivo")
	rejectField(t, uc, entity.FieldCURP, "segundo motivo")

	require.Len(t, s.verifications, 1, "la fila se crea una sola vez")
	assert.Equal(t, "segundo motivo", s.verifications[0].RejectionReason)
}

func TestRejectField_CampoNoVerificable(t *testing.T) {
	_, uc, _ := newFixture(t)
	_, err := uc.RejectField(context.Background(), tenantID, applicantID, entity.FieldName("NUMERO_DE_CALZADO"), "x", analystID)
	assert.ErrorIs(t, err, domain.ErrFieldNotVerifiable)
}

func TestRejectField_SnapshotCompuestoDeDomicilio(t *testing.T) {
	s, uc, _ := newFixture(t)

	rejectField(t, uc, entity.FieldAddress, "código postal no coincide")

	require.Len(t, s.verifications, 1)
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.verifications[0].FieldValue), &snap))
	assert.Equal(t, "Reforma", snap["street"])
	assert.Equal(t, "06600", snap["postal_code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitCorrection
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitCorrection_SinRechazoPendiente(t *testing.T) {
	_, uc, _ := newFixture(t)
	_, err := uc.SubmitCorrection(context.Background(), tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: "CURP",
		NewValue:  json.RawMessage(`"GOMC800101HDFRRL09"`),
	}, ownerID, "")
	assert.ErrorIs(t, err, domain.ErrNoPendingCorrection)
}

func TestSubmitCorrection_CorrigeYCierraElCiclo(t *testing.T) {
	s, uc, notifier := newFixture(t)
	rejectField(t, uc, entity.FieldCURP, "CURP no coincide con INE")

	out := submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)

	assert.True(t, out.CycleClosed)
	assert.ElementsMatch(t, []string{"app-1", "app-2"}, out.Transitioned)
	assert.Equal(t, map[string]string{"CURP": "GOMC800101HDFRRL01 → GOMC800101HDFRRL09"}, out.Changes)
	assert.Equal(t, "GOMC800101HDFRRL09", s.applicants[applicantID].CURP)

	v := s.verifications[0]
	assert.Equal(t, entity.VerificationCorrected, v.Status)
	require.Equal(t, 1, v.History.Len())
	entry := v.History.Entries()[0]
	assert.Equal(t, "GOMC800101HDFRRL01", entry.OldValue)
	assert.Equal(t, "GOMC800101HDFRRL09", entry.NewValue)
	assert.Equal(t, "CURP no coincide con INE", entry.RejectionReason)
	assert.Equal(t, ownerID, entry.CorrectedBy)

	// Ambas solicitudes pendientes regresan a revisión con el motivo sintetizado.
	for _, app := range s.applications {
		assert.Equal(t, entity.StatusInReview, app.Status)
		last, ok := app.StatusHistory.Last()
		require.True(t, ok)
		assert.Equal(t, entity.StatusCorrectionsPending, last.From)
		assert.Equal(t, "Datos corregidos: CURP", last.Reason)

		// La línea de tiempo lleva la entrada narrativa de la corrección.
		var found bool
		for _, e := range app.Timeline.Entries() {
			if e.Action == entity.ActionDataCorrection {
				found = true
				assert.Equal(t, "CURP", e.Payload["field_name"])
				assert.Equal(t, "Ciudad de México, CDMX, México", e.Payload["location"])
			}
		}
		assert.True(t, found)
	}

	assert.Contains(t, notifier.events, "DataCorrectionSubmitted")
}

func TestSubmitCorrection_EsIdempotente(t *testing.T) {
	s, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldCURP, "motivo")
	submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)

	_, err := uc.SubmitCorrection(context.Background(), tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: "CURP",
		NewValue:  json.RawMessage(`"GOMC800101HDFRRL99"`),
	}, ownerID, "")

	assert.ErrorIs(t, err, domain.ErrNoPendingCorrection)
	assert.Equal(t, 1, s.verifications[0].History.Len(), "el reintento no agrega historial")
	assert.Equal(t, "GOMC800101HDFRRL09", s.applicants[applicantID].CURP, "el reintento no muta el perfil")
}

// Un segundo campo rechazado detiene la compuerta aunque el primero ya se corrigió.
func TestSubmitCorrection_CompuertaEsperaTodosLosCampos(t *testing.T) {
	s, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldCURP, "CURP ilegible")
	rejectField(t, uc, entity.FieldAddress, "código postal no coincide")

	out := submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)
	assert.False(t, out.CycleClosed)
	for _, app := range s.applications {
		assert.Equal(t, entity.StatusCorrectionsPending, app.Status)
	}

	out = submitCorrection(t, uc, entity.FieldAddress, `{"postal_code":"03100"}`)
	assert.True(t, out.CycleClosed)
	for _, app := range s.applications {
		assert.Equal(t, entity.StatusInReview, app.Status)
		last, _ := app.StatusHistory.Last()
		assert.Equal(t, "Datos corregidos: CURP, Dirección", last.Reason)
	}
	assert.Equal(t, "03100", s.addresses[applicantID].PostalCode)
}

// Los tres sub-campos del nombre colapsan en una sola etiqueta en el motivo.
func TestSubmitCorrection_NombreColapsaEnUnaEtiqueta(t *testing.T) {
	s, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldFirstName, "nombre no coincide con INE")
	rejectField(t, uc, entity.FieldLastName1, "apellido no coincide con INE")

	out := submitCorrection(t, uc, entity.FieldFirstName, `"Juan"`)
	assert.False(t, out.CycleClosed)

	out = submitCorrection(t, uc, entity.FieldLastName1, `"Gómez Luna"`)
	assert.True(t, out.CycleClosed)

	assert.Equal(t, "Juan", s.applicants[applicantID].FirstName)
	assert.Equal(t, "Gómez Luna", s.applicants[applicantID].LastName1)
	last, _ := s.applications[0].StatusHistory.Last()
	assert.Equal(t, "Datos corregidos: Nombre Completo", last.Reason)
}

// Un documento rechazado de cualquier solicitud del solicitante bloquea el cierre.
func TestSubmitCorrection_DocumentoRechazadoBloqueaElCiclo(t *testing.T) {
	s, uc, _ := newFixture(t)
	s.documents = append(s.documents, &entity.Document{
		ID:            "doc-1",
		ApplicationID: "app-2",
		Type:          entity.DocRFC,
		Status:        entity.DocumentRejected,
	})
	rejectField(t, uc, entity.FieldCURP, "motivo")

	out := submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)

	assert.False(t, out.CycleClosed, "el documento rechazado mantiene la compuerta cerrada")
	for _, app := range s.applications {
		assert.Equal(t, entity.StatusCorrectionsPending, app.Status)
	}
}

func TestSubmitCorrection_DomicilioInexistenteFallaConError(t *testing.T) {
	s, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldAddress, "motivo")
	delete(s.addresses, applicantID)

	_, err := uc.SubmitCorrection(context.Background(), tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: "ADDRESS",
		NewValue:  json.RawMessage(`{"postal_code":"03100"}`),
	}, ownerID, "")

	assert.ErrorIs(t, err, domain.ErrAddressMissing)
	assert.Equal(t, entity.VerificationRejected, s.verifications[0].Status, "la verificación sigue rechazada")
}

func TestSubmitCorrection_EntradaInvalida(t *testing.T) {
	_, uc, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.SubmitCorrection(ctx, tenantID, applicantID, dto.SubmitCorrectionRequest{}, ownerID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SubmitCorrection(ctx, tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: "CURP",
		NewValue:  json.RawMessage(`null`),
	}, ownerID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SubmitCorrection(ctx, tenantID, applicantID, dto.SubmitCorrectionRequest{
		FieldName: "NUMERO_DE_CALZADO",
		NewValue:  json.RawMessage(`"42"`),
	}, ownerID, "")
	assert.ErrorIs(t, err, domain.ErrFieldNotVerifiable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciler
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_DocumentoSuperadoAbreLaCompuerta(t *testing.T) {
	s, _, _ := newFixture(t)
	doc := &entity.Document{
		ID:            "doc-1",
		ApplicationID: "app-1",
		Type:          entity.DocRFC,
		Status:        entity.DocumentRejected,
	}
	s.documents = append(s.documents, doc)

	// La carga del documento nuevo quedó en la línea de tiempo durante el ciclo.
	s.applications[0].Timeline.Append(entity.TimelineEntry{
		Action:    entity.ActionDocUploaded,
		Payload:   map[string]any{"document_type": "RFC"},
		ActorID:   ownerID,
		Timestamp: time.Now().Add(-10 * time.Minute),
	})

	recon := corrections.NewReconciler("Nombre Completo", logger.Nop())
	repos := reposFor(s)
	now := time.Now()

	advanced, err := recon.Reconcile(repos, applicantID, analystID, now)
	require.NoError(t, err)
	assert.Empty(t, advanced, "el rechazo vigente bloquea")

	doc.Superseded = true
	advanced, err = recon.Reconcile(repos, applicantID, analystID, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app-1", "app-2"}, advanced)

	last, _ := s.applications[0].StatusHistory.Last()
	assert.Equal(t, "Documentos actualizados: Constancia de Situación Fiscal", last.Reason)
}

func TestReconcile_SinHistorialUsaMensajeGenerico(t *testing.T) {
	s, _, _ := newFixture(t)
	app := &entity.Application{
		ID:          "app-3",
		TenantID:    tenantID,
		ApplicantID: applicantID,
		Status:      entity.StatusCorrectionsPending,
	}
	s.applications = []*entity.Application{app}

	recon := corrections.NewReconciler("Nombre Completo", logger.Nop())
	advanced, err := recon.Reconcile(reposFor(s), applicantID, analystID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"app-3"}, advanced)

	last, _ := app.StatusHistory.Last()
	assert.Equal(t, "Correcciones completadas", last.Reason)
}

func TestReconcile_SinSolicitudesPendientesEsNoOp(t *testing.T) {
	s, _, _ := newFixture(t)
	for _, app := range s.applications {
		app.Status = entity.StatusInReview
	}
	recon := corrections.NewReconciler("Nombre Completo", logger.Nop())
	advanced, err := recon.Reconcile(reposFor(s), applicantID, analystID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, advanced)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestListRejected_SoloCamposRechazados(t *testing.T) {
	_, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldCURP, "motivo CURP")
	rejectField(t, uc, entity.FieldRFC, "motivo RFC")
	submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)

	out, err := uc.ListRejected(context.Background(), tenantID, applicantID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "RFC", out[0].FieldName)
	assert.Equal(t, "motivo RFC", out[0].RejectionReason)
}

func TestListCorrectionHistory_AplanaYColapsaNombre(t *testing.T) {
	_, uc, _ := newFixture(t)
	rejectField(t, uc, entity.FieldFirstName, "nombre ilegible")
	submitCorrection(t, uc, entity.FieldFirstName, `"Juan"`)
	rejectField(t, uc, entity.FieldCURP, "CURP ilegible")
	submitCorrection(t, uc, entity.FieldCURP, `"GOMC800101HDFRRL09"`)

	out, err := uc.ListCorrectionHistory(context.Background(), tenantID, applicantID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Nombre Completo", out[0].Label, "sub-campo del nombre bajo la etiqueta del grupo")
	assert.Equal(t, "José", out[0].OldValue)
	assert.Equal(t, "Juan", out[0].NewValue)
	assert.Equal(t, "CURP", out[1].Label)
}

func TestResolveApplicant(t *testing.T) {
	_, uc, _ := newFixture(t)

	id, err := uc.ResolveApplicant(context.Background(), tenantID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, applicantID, id)

	_, err = uc.ResolveApplicant(context.Background(), tenantID, "usr-desconocido")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
