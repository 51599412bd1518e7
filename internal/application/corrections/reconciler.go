package corrections

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/credipronto/originacion-api/internal/application/loans"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/fieldrouter"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
	"github.com/credipronto/originacion-api/pkg/logger"
)

// Mensaje genérico cuando el inicio del ciclo es desconocido o nada cambió.
const genericCycleMessage = "Correcciones completadas"

// Reconciler detecta el cierre del ciclo de correcciones de un solicitante y
// regresa a revisión todas sus solicitudes en CORRECTIONS_PENDING. El ciclo
// cierra solo cuando CERO campos y CERO documentos (de cualquier solicitud del
// solicitante) siguen rechazados: un solo rechazo pendiente bloquea a todas,
// incluso a las que no tienen relación lógica con ese campo, porque los datos
// personales son compartidos entre solicitudes.
type Reconciler struct {
	fullNameLabel string
	log           *logger.Logger
}

// NewReconciler construye el reconciliador. fullNameLabel es la etiqueta bajo
// la que colapsan los tres campos del nombre (política de producto).
func NewReconciler(fullNameLabel string, log *logger.Logger) *Reconciler {
	return &Reconciler{fullNameLabel: fullNameLabel, log: log}
}

// Reconcile evalúa la compuerta y, si el ciclo cerró, transiciona todas las
// solicitudes pendientes a IN_REVIEW con un motivo sintetizado a partir de lo
// que de verdad se corrigió. Debe ejecutarse dentro de la transacción
// serializada por solicitante. Devuelve los IDs de solicitudes avanzadas.
func (rc *Reconciler) Reconcile(r Repos, applicantID, actorID string, now time.Time) ([]string, error) {
	// Compuerta AND estricta: cualquier campo rechazado detiene todo.
	rejected, err := r.Verifications.ListRejected(applicantID)
	if err != nil {
		return nil, err
	}
	if len(rejected) > 0 {
		return nil, nil
	}
	// ... y cualquier documento rechazado también.
	rejectedDocs, err := r.Documents.ListRejectedByApplicant(applicantID)
	if err != nil {
		return nil, err
	}
	if len(rejectedDocs) > 0 {
		return nil, nil
	}

	pending, err := r.Applications.ListByApplicantAndStatus(applicantID, entity.StatusCorrectionsPending)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	message := rc.buildMessage(r, applicantID, pending, now)

	var advanced []string
	for _, app := range pending {
		err := loans.ApplyChange(r.Applications, r.Audit, app, entity.StatusInReview, message, actorID, now, nil)
		if errors.Is(err, workflow.ErrSameStatus) {
			// Otro proceso ya la avanzó: advertencia, no falla dura.
			rc.log.Warn().Str("application_id", app.ID).Msg("solicitud ya avanzada por otro proceso")
			continue
		}
		if err != nil {
			return nil, err
		}
		advanced = append(advanced, app.ID)
	}
	return advanced, nil
}

// buildMessage sintetiza el motivo legible del regreso a revisión a partir de
// lo corregido desde el inicio del ciclo. El inicio del ciclo es el timestamp
// de la entrada más reciente hacia CORRECTIONS_PENDING en el historial de la
// primera solicitud pendiente; sin esa entrada la narrativa degrada al mensaje
// genérico.
func (rc *Reconciler) buildMessage(r Repos, applicantID string, pending []*entity.Application, now time.Time) string {
	cycleStart, ok := cycleStartFrom(pending[0])
	if !ok {
		return genericCycleMessage
	}

	fields := rc.correctedFieldLabels(r, applicantID, cycleStart)
	docs := uploadedDocLabels(pendingTimelines(r, applicantID, pending), cycleStart)

	var clauses []string
	if len(fields) > 0 {
		clauses = append(clauses, fmt.Sprintf("Datos corregidos: %s", strings.Join(fields, ", ")))
	}
	if len(docs) > 0 {
		clauses = append(clauses, fmt.Sprintf("Documentos actualizados: %s", strings.Join(docs, ", ")))
	}
	if len(clauses) == 0 {
		return genericCycleMessage
	}
	return strings.Join(clauses, ". ")
}

// cycleStartFrom busca la entrada más reciente hacia CORRECTIONS_PENDING en el
// historial de la solicitud (orden descendente por timestamp).
func cycleStartFrom(app *entity.Application) (time.Time, bool) {
	entries := app.StatusHistory.Entries()
	var best time.Time
	found := false
	for _, e := range entries {
		if e.To != entity.StatusCorrectionsPending {
			continue
		}
		if !found || e.Timestamp.After(best) {
			best = e.Timestamp
			found = true
		}
	}
	return best, found
}

// correctedFieldLabels campos distintos corregidos en el ciclo, con los tres
// sub-campos del nombre deduplicados a una sola etiqueta (a lo más una por
// grupo, orden de primera aparición preservado).
func (rc *Reconciler) correctedFieldLabels(r Repos, applicantID string, cycleStart time.Time) []string {
	verifications, err := r.Verifications.ListByApplicant(applicantID)
	if err != nil {
		rc.log.Warn().Err(err).Msg("no se pudieron listar verificaciones para el mensaje del ciclo")
		return nil
	}
	var fields []entity.FieldName
	for _, v := range verifications {
		if v.Status != entity.VerificationCorrected || v.CorrectedAt == nil {
			continue
		}
		if v.CorrectedAt.Before(cycleStart) {
			continue
		}
		fields = append(fields, v.FieldName)
	}
	return fieldrouter.CollapseLabels(fields, rc.fullNameLabel)
}

// pendingTimelines junta las líneas de tiempo de todas las solicitudes del
// solicitante (las cargas de documento pudieron ocurrir en cualquiera).
func pendingTimelines(r Repos, applicantID string, pending []*entity.Application) []entity.TimelineEntry {
	apps, err := r.Applications.ListByApplicant(applicantID)
	if err != nil {
		apps = pending
	}
	var entries []entity.TimelineEntry
	for _, app := range apps {
		entries = append(entries, app.Timeline.Entries()...)
	}
	return entries
}

// uploadedDocLabels tipos de documento cargados durante el ciclo (acción
// DOC_UPLOADED), resueltos a etiqueta y deduplicados.
func uploadedDocLabels(entries []entity.TimelineEntry, cycleStart time.Time) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Action != entity.ActionDocUploaded || e.Timestamp.Before(cycleStart) {
			continue
		}
		raw, _ := e.Payload["document_type"].(string)
		if raw == "" {
			continue
		}
		label := entity.DocumentType(raw).Label()
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
