package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.EmploymentRepository = (*EmploymentRepo)(nil)

// EmploymentRepo implementación del puerto EmploymentRepository sobre PostgreSQL (usable con pool o tx).
type EmploymentRepo struct {
	q Querier
}

// NewEmploymentRepository construye el adaptador de persistencia para registros laborales. Pasar pool o tx (Querier).
func NewEmploymentRepository(q Querier) *EmploymentRepo {
	return &EmploymentRepo{q: q}
}

const employmentColumns = `id, tenant_id, applicant_id, current, type, company, position, monthly_income, tenure_months, created_at, updated_at`

// Create persiste un registro laboral.
func (r *EmploymentRepo) Create(e *entity.EmploymentRecord) error {
	query := `
		INSERT INTO employment_records (` + employmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TenantID, e.ApplicantID, e.Current, e.Type, e.Company, e.Position,
		e.MonthlyIncome, e.TenureMonths, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employment: %w", err)
	}
	return nil
}

// GetCurrent obtiene el registro laboral vigente del solicitante.
func (r *EmploymentRepo) GetCurrent(applicantID string) (*entity.EmploymentRecord, error) {
	query := `
		SELECT ` + employmentColumns + `
		FROM employment_records WHERE applicant_id = $1 AND current`
	var e entity.EmploymentRecord
	err := r.q.QueryRow(context.Background(), query, applicantID).Scan(
		&e.ID, &e.TenantID, &e.ApplicantID, &e.Current, &e.Type, &e.Company, &e.Position,
		&e.MonthlyIncome, &e.TenureMonths, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current employment: %w", err)
	}
	return &e, nil
}

// Update actualiza un registro laboral existente.
func (r *EmploymentRepo) Update(e *entity.EmploymentRecord) error {
	query := `
		UPDATE employment_records
		SET current = $2, type = $3, company = $4, position = $5, monthly_income = $6, tenure_months = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Current, e.Type, e.Company, e.Position, e.MonthlyIncome, e.TenureMonths, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employment: %w", err)
	}
	return nil
}

// ClearCurrent marca como no vigentes los registros laborales del solicitante.
func (r *EmploymentRepo) ClearCurrent(applicantID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE employment_records SET current = false, updated_at = now() WHERE applicant_id = $1 AND current`,
		applicantID,
	)
	if err != nil {
		return fmt.Errorf("clear current employment: %w", err)
	}
	return nil
}
