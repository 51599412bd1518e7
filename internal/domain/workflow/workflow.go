// Package workflow contiene las reglas puras del ciclo de vida de una solicitud:
// tabla de transiciones legales, aplicación atómica en memoria (estado + historial
// + línea de tiempo) y la verificación de completitud para el envío.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// ErrSameStatus transición hacia el estado que ya ocupa la solicitud. El que
// llama lo trata como advertencia (no-op), no como falla dura: lo produce la
// carrera lector-escritor cuando otro proceso ya avanzó la solicitud.
var ErrSameStatus = errors.New("la solicitud ya se encuentra en ese estado")

// IllegalTransitionError transición que viola la tabla de estados.
type IllegalTransitionError struct {
	From entity.Status
	To   entity.Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("transición ilegal: %s -> %s", e.From, e.To)
}

// legal tabla de transiciones. Los estados terminales no aparecen como origen.
// CORRECTIONS_PENDING -> IN_REVIEW solo la dispara el reconciliador de
// correcciones; esa restricción se aplica en la frontera (no hay endpoint que
// la invoque directamente).
var legal = map[entity.Status][]entity.Status{
	entity.StatusDraft:              {entity.StatusSubmitted, entity.StatusCancelled},
	entity.StatusSubmitted:          {entity.StatusInReview, entity.StatusCancelled},
	entity.StatusInReview:           {entity.StatusDocsPending, entity.StatusCorrectionsPending, entity.StatusCounterOffered, entity.StatusApproved, entity.StatusRejected, entity.StatusCancelled},
	entity.StatusDocsPending:        {entity.StatusSubmitted, entity.StatusCancelled},
	entity.StatusCorrectionsPending: {entity.StatusInReview},
	entity.StatusCounterOffered:     {entity.StatusInReview, entity.StatusApproved, entity.StatusCancelled},
	entity.StatusApproved:           {entity.StatusDisbursed},
	entity.StatusDisbursed:          {entity.StatusSynced},
}

// CanTransition valida la transición. Devuelve ErrSameStatus si from == to y
// *IllegalTransitionError si la tabla no la permite.
func CanTransition(from, to entity.Status) error {
	if from == to {
		return ErrSameStatus
	}
	for _, t := range legal[from] {
		if t == to {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to}
}

// Apply ejecuta la transición en memoria: valida, actualiza Status y agrega la
// entrada al historial y a la línea de tiempo con el mismo timestamp. El payload
// extra (ej. ubicación aproximada) se adjunta solo a la línea de tiempo.
// La persistencia posterior debe escribir los tres campos en una sola operación.
func Apply(app *entity.Application, to entity.Status, reason, actorID string, now time.Time, extra map[string]any) error {
	if err := CanTransition(app.Status, to); err != nil {
		return err
	}
	from := app.Status
	app.Status = to
	app.StatusHistory.Append(entity.StatusChange{
		From:      from,
		To:        to,
		Reason:    reason,
		ActorID:   actorID,
		Timestamp: now,
	})
	payload := map[string]any{
		"from":   string(from),
		"to":     string(to),
		"reason": reason,
	}
	for k, v := range extra {
		payload[k] = v
	}
	app.Timeline.Append(entity.TimelineEntry{
		Action:    entity.ActionStatusChange,
		Payload:   payload,
		ActorID:   actorID,
		Timestamp: now,
	})
	app.UpdatedAt = now
	return nil
}
