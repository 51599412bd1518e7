package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_TransicionesLegales(t *testing.T) {
	cases := []struct {
		from entity.Status
		to   entity.Status
	}{
		{entity.StatusDraft, entity.StatusSubmitted},
		{entity.StatusDraft, entity.StatusCancelled},
		{entity.StatusSubmitted, entity.StatusInReview},
		{entity.StatusInReview, entity.StatusDocsPending},
		{entity.StatusInReview, entity.StatusCorrectionsPending},
		{entity.StatusInReview, entity.StatusCounterOffered},
		{entity.StatusInReview, entity.StatusApproved},
		{entity.StatusInReview, entity.StatusRejected},
		{entity.StatusDocsPending, entity.StatusSubmitted},
		{entity.StatusCorrectionsPending, entity.StatusInReview},
		{entity.StatusCounterOffered, entity.StatusInReview},
		{entity.StatusCounterOffered, entity.StatusApproved},
		{entity.StatusApproved, entity.StatusDisbursed},
		{entity.StatusDisbursed, entity.StatusSynced},
	}
	for _, tc := range cases {
		assert.NoError(t, workflow.CanTransition(tc.from, tc.to), "%s -> %s debe ser legal", tc.from, tc.to)
	}
}

func TestCanTransition_TransicionesIlegales(t *testing.T) {
	cases := []struct {
		from entity.Status
		to   entity.Status
	}{
		{entity.StatusDraft, entity.StatusInReview},
		{entity.StatusDraft, entity.StatusApproved},
		{entity.StatusSubmitted, entity.StatusApproved},
		{entity.StatusCorrectionsPending, entity.StatusCancelled},
		{entity.StatusCorrectionsPending, entity.StatusApproved},
		{entity.StatusApproved, entity.StatusRejected},
		{entity.StatusDisbursed, entity.StatusApproved},
	}
	for _, tc := range cases {
		err := workflow.CanTransition(tc.from, tc.to)
		var illegal *workflow.IllegalTransitionError
		require.ErrorAs(t, err, &illegal, "%s -> %s debe ser ilegal", tc.from, tc.to)
		assert.Equal(t, tc.from, illegal.From)
		assert.Equal(t, tc.to, illegal.To)
	}
}

// Los estados terminales no tienen salidas.
func TestCanTransition_EstadosTerminales(t *testing.T) {
	terminales := []entity.Status{entity.StatusRejected, entity.StatusCancelled, entity.StatusSynced}
	destinos := []entity.Status{
		entity.StatusDraft, entity.StatusSubmitted, entity.StatusInReview,
		entity.StatusApproved, entity.StatusDisbursed,
	}
	for _, from := range terminales {
		assert.True(t, from.IsTerminal())
		for _, to := range destinos {
			err := workflow.CanTransition(from, to)
			var illegal *workflow.IllegalTransitionError
			assert.ErrorAs(t, err, &illegal, "desde terminal %s no debe salir transición", from)
		}
	}
}

func TestCanTransition_MismoEstado(t *testing.T) {
	err := workflow.CanTransition(entity.StatusInReview, entity.StatusInReview)
	assert.ErrorIs(t, err, workflow.ErrSameStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_ActualizaEstadoHistorialYLineaDeTiempo(t *testing.T) {
	app := &entity.Application{ID: "app-1", Status: entity.StatusDraft}
	now := time.Now()

	err := workflow.Apply(app, entity.StatusSubmitted, "Solicitud enviada", "user-1", now, map[string]any{"location": "CDMX, México"})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSubmitted, app.Status)

	last, ok := app.StatusHistory.Last()
	require.True(t, ok)
	assert.Equal(t, entity.StatusDraft, last.From)
	assert.Equal(t, entity.StatusSubmitted, last.To)
	assert.Equal(t, "Solicitud enviada", last.Reason)
	assert.Equal(t, "user-1", last.ActorID)

	entries := app.Timeline.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionStatusChange, entries[0].Action)
	assert.Equal(t, "CDMX, México", entries[0].Payload["location"])
	// Historial y línea de tiempo comparten el mismo timestamp.
	assert.Equal(t, last.Timestamp, entries[0].Timestamp)
}

func TestApply_TransicionIlegalNoMutaNada(t *testing.T) {
	app := &entity.Application{ID: "app-1", Status: entity.StatusDraft}
	err := workflow.Apply(app, entity.StatusApproved, "x", "user-1", time.Now(), nil)

	var illegal *workflow.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, entity.StatusDraft, app.Status)
	assert.Equal(t, 0, app.StatusHistory.Len())
	assert.Equal(t, 0, app.Timeline.Len())
}

func TestApply_MismoEstadoNoAgregaHistorial(t *testing.T) {
	app := &entity.Application{ID: "app-1", Status: entity.StatusInReview}
	err := workflow.Apply(app, entity.StatusInReview, "x", "user-1", time.Now(), nil)

	assert.ErrorIs(t, err, workflow.ErrSameStatus)
	assert.Equal(t, 0, app.StatusHistory.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// Completitud de envío
// ──────────────────────────────────────────────────────────────────────────────

// Todos los requisitos faltantes se reportan a la vez, nunca solo el primero.
func TestCheckCompleteness_ReportaTodosLosFaltantes(t *testing.T) {
	err := workflow.CheckCompleteness(workflow.CompletenessInput{
		HasPersonalData: false,
		HasAddress:      false,
		HasEmployment:   false,
		HasSignature:    false,
		HasPurpose:      false,
		RequiredDocs:    []entity.DocumentType{entity.DocIdentificacion, entity.DocRFCConstancia},
		UploadedDocs:    nil,
		ReferenceCount:  0,
		MinReferences:   2,
	})

	var incomplete *domain.IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Len(t, incomplete.Fields, 8)
	assert.Contains(t, incomplete.Fields, "personal_data")
	assert.Contains(t, incomplete.Fields, "address")
	assert.Contains(t, incomplete.Fields, "employment")
	assert.Contains(t, incomplete.Fields, "signature")
	assert.Contains(t, incomplete.Fields, "purpose")
	assert.Contains(t, incomplete.Fields, "document_IDENTIFICACION")
	assert.Contains(t, incomplete.Fields, "document_RFC_CONSTANCIA")
	assert.Contains(t, incomplete.Fields, "references")
}

// Un documento cargado con el tipo alias satisface el requisito canónico.
func TestCheckCompleteness_AliasDeDocumentoSatisfaceRequisito(t *testing.T) {
	err := workflow.CheckCompleteness(workflow.CompletenessInput{
		HasPersonalData: true,
		HasAddress:      true,
		HasEmployment:   true,
		HasSignature:    true,
		HasPurpose:      true,
		RequiredDocs:    []entity.DocumentType{entity.DocRFCConstancia, entity.DocComprobanteDomicilio},
		UploadedDocs:    []entity.DocumentType{entity.DocRFC, entity.DocComprobanteDomAlias},
		ReferenceCount:  2,
		MinReferences:   2,
	})
	assert.NoError(t, err)
}

func TestCheckCompleteness_Completa(t *testing.T) {
	err := workflow.CheckCompleteness(workflow.CompletenessInput{
		HasPersonalData: true,
		HasAddress:      true,
		HasEmployment:   true,
		HasSignature:    true,
		HasPurpose:      true,
		RequiredDocs:    []entity.DocumentType{entity.DocIdentificacion},
		UploadedDocs:    []entity.DocumentType{entity.DocIdentificacion},
		ReferenceCount:  3,
		MinReferences:   2,
	})
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, workflow.ErrSameStatus))
}
