package loans

import (
	"time"

	"github.com/google/uuid"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
)

// ApplyChange es el único punto de mutación de estado: aplica la transición en
// memoria (estado + historial + línea de tiempo con el mismo timestamp) y la
// persiste junto con su entrada de auditoría. Debe invocarse dentro de una
// transacción; si cualquier escritura falla, el rollback impide que un lector
// observe estado e historial fuera de sincronía.
//
// workflow.ErrSameStatus se propaga tal cual: el que llama decide si lo trata
// como advertencia (carrera lector-escritor) o como error.
func ApplyChange(
	apps repository.ApplicationRepository,
	audit repository.AuditRepository,
	app *entity.Application,
	to entity.Status,
	reason, actorID string,
	now time.Time,
	extra map[string]any,
) error {
	from := app.Status
	if err := workflow.Apply(app, to, reason, actorID, now, extra); err != nil {
		return err
	}
	if err := apps.Update(app); err != nil {
		return err
	}
	payload := map[string]any{
		"from":   string(from),
		"to":     string(to),
		"reason": reason,
	}
	for k, v := range extra {
		payload[k] = v
	}
	return audit.Append(&entity.AuditEvent{
		ID:         uuid.New().String(),
		TenantID:   app.TenantID,
		Action:     "application.status_changed",
		ActorID:    actorID,
		EntityType: "application",
		EntityID:   app.ID,
		Payload:    payload,
		CreatedAt:  now,
	})
}
