package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo implementación del puerto ApplicationRepository sobre PostgreSQL (usable con pool o tx).
// status_history y timeline viven en columnas JSONB: el agregado se lee y
// escribe completo, estado e historial nunca se persisten por separado.
type ApplicationRepo struct {
	q Querier
}

// NewApplicationRepository construye el adaptador de persistencia para solicitudes. Pasar pool o tx (Querier).
func NewApplicationRepository(q Querier) *ApplicationRepo {
	return &ApplicationRepo{q: q}
}

const applicationColumns = `id, tenant_id, applicant_id, status, purpose, requested_amount, term_months, monthly_rate, approved_amount, counter_amount, counter_term, counter_rate, status_history, timeline, created_at, updated_at`

// Create persiste una solicitud nueva con su historial inicial.
func (r *ApplicationRepo) Create(app *entity.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		app.ID, app.TenantID, app.ApplicantID, app.Status, app.Purpose,
		app.RequestedAmount, app.TermMonths, app.MonthlyRate, app.ApprovedAmount,
		app.CounterAmount, app.CounterTerm, app.CounterRate,
		app.StatusHistory, app.Timeline, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *ApplicationRepo) GetByID(id string) (*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	var app entity.Application
	err := scanApplication(r.q.QueryRow(context.Background(), query, id), &app)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &app, nil
}

// ListByApplicant lista todas las solicitudes del solicitante, más reciente primero.
func (r *ApplicationRepo) ListByApplicant(applicantID string) ([]*entity.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`
	return r.list(query, applicantID)
}

// ListByApplicantAndStatus lista las solicitudes del solicitante en un estado dado.
func (r *ApplicationRepo) ListByApplicantAndStatus(applicantID string, status entity.Status) ([]*entity.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications WHERE applicant_id = $1 AND status = $2 ORDER BY created_at DESC`
	return r.list(query, applicantID, status)
}

// Update escribe estado, términos, historial y línea de tiempo en una sola
// sentencia. Nadie observa estado nuevo con historial viejo.
func (r *ApplicationRepo) Update(app *entity.Application) error {
	query := `
		UPDATE applications
		SET status = $2, purpose = $3, requested_amount = $4, term_months = $5, monthly_rate = $6,
		    approved_amount = $7, counter_amount = $8, counter_term = $9, counter_rate = $10,
		    status_history = $11, timeline = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		app.ID, app.Status, app.Purpose, app.RequestedAmount, app.TermMonths, app.MonthlyRate,
		app.ApprovedAmount, app.CounterAmount, app.CounterTerm, app.CounterRate,
		app.StatusHistory, app.Timeline, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) list(query string, args ...any) ([]*entity.Application, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Application
	for rows.Next() {
		var app entity.Application
		if err := scanApplication(rows, &app); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		list = append(list, &app)
	}
	return list, rows.Err()
}

func scanApplication(row pgx.Row, app *entity.Application) error {
	return row.Scan(
		&app.ID, &app.TenantID, &app.ApplicantID, &app.Status, &app.Purpose,
		&app.RequestedAmount, &app.TermMonths, &app.MonthlyRate, &app.ApprovedAmount,
		&app.CounterAmount, &app.CounterTerm, &app.CounterRate,
		&app.StatusHistory, &app.Timeline, &app.CreatedAt, &app.UpdatedAt,
	)
}
