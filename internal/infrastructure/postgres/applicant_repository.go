package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/credipronto/originacion-api/internal/domain"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.ApplicantRepository = (*ApplicantRepo)(nil)

// ApplicantRepo implementación del puerto ApplicantRepository sobre PostgreSQL (usable con pool o tx).
type ApplicantRepo struct {
	q Querier
}

// NewApplicantRepository construye el adaptador de persistencia para solicitantes. Pasar pool o tx (Querier).
func NewApplicantRepository(q Querier) *ApplicantRepo {
	return &ApplicantRepo{q: q}
}

const applicantColumns = `id, tenant_id, user_id, first_name, last_name_1, last_name_2, curp, rfc, ine, birth_date, phone, email, signed_at, status, created_at, updated_at`

// Create persiste un nuevo perfil. Un usuario tiene a lo más un perfil por tenant.
func (r *ApplicantRepo) Create(a *entity.Applicant) error {
	query := `
		INSERT INTO applicants (` + applicantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.TenantID, a.UserID, a.FirstName, a.LastName1, a.LastName2,
		a.CURP, a.RFC, a.INE, a.BirthDate, a.Phone, a.Email,
		a.SignedAt, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert applicant: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ApplicantRepo) GetByID(id string) (*entity.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get applicant")
}

// GetByUser obtiene el perfil del usuario dentro del tenant.
func (r *ApplicantRepo) GetByUser(tenantID, userID string) (*entity.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE tenant_id = $1 AND user_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, tenantID, userID), "get applicant by user")
}

// Update actualiza el perfil completo (los datos de identidad cambian vía correcciones).
func (r *ApplicantRepo) Update(a *entity.Applicant) error {
	query := `
		UPDATE applicants
		SET first_name = $2, last_name_1 = $3, last_name_2 = $4, curp = $5, rfc = $6, ine = $7,
		    birth_date = $8, phone = $9, email = $10, signed_at = $11, status = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.FirstName, a.LastName1, a.LastName2, a.CURP, a.RFC, a.INE,
		a.BirthDate, a.Phone, a.Email, a.SignedAt, a.Status, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update applicant: %w", err)
	}
	return nil
}

func (r *ApplicantRepo) scanOne(row pgx.Row, op string) (*entity.Applicant, error) {
	var a entity.Applicant
	err := row.Scan(
		&a.ID, &a.TenantID, &a.UserID, &a.FirstName, &a.LastName1, &a.LastName2,
		&a.CURP, &a.RFC, &a.INE, &a.BirthDate, &a.Phone, &a.Email,
		&a.SignedAt, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}
