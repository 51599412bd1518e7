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

var _ repository.DataVerificationRepository = (*DataVerificationRepo)(nil)

// DataVerificationRepo implementación del puerto DataVerificationRepository sobre PostgreSQL (usable con pool o tx).
// correction_history vive en una columna JSONB de solo-agregado.
type DataVerificationRepo struct {
	q Querier
}

// NewDataVerificationRepository construye el adaptador de persistencia para verificaciones. Pasar pool o tx (Querier).
func NewDataVerificationRepository(q Querier) *DataVerificationRepo {
	return &DataVerificationRepo{q: q}
}

const verificationColumns = `id, tenant_id, applicant_id, field_name, status, field_value, rejection_reason, rejected_at, corrected_at, correction_history, created_at, updated_at`

// Create persiste una verificación nueva. Hay a lo más una fila por (solicitante, campo).
func (r *DataVerificationRepo) Create(v *entity.DataVerification) error {
	query := `
		INSERT INTO data_verifications (` + verificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.TenantID, v.ApplicantID, v.FieldName, v.Status, v.FieldValue,
		v.RejectionReason, v.RejectedAt, v.CorrectedAt, v.History, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByApplicantAndField obtiene la verificación de un campo del solicitante.
func (r *DataVerificationRepo) GetByApplicantAndField(applicantID string, field entity.FieldName) (*entity.DataVerification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM data_verifications WHERE applicant_id = $1 AND field_name = $2`
	var v entity.DataVerification
	err := scanVerification(r.q.QueryRow(context.Background(), query, applicantID, field), &v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification: %w", err)
	}
	return &v, nil
}

// ListByApplicant lista todas las verificaciones del solicitante.
func (r *DataVerificationRepo) ListByApplicant(applicantID string) ([]*entity.DataVerification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM data_verifications WHERE applicant_id = $1 ORDER BY field_name`
	return r.list(query, applicantID)
}

// ListRejected lista las verificaciones en REJECTED del solicitante (compuerta del reconciliador).
func (r *DataVerificationRepo) ListRejected(applicantID string) ([]*entity.DataVerification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM data_verifications WHERE applicant_id = $1 AND status = $2 ORDER BY field_name`
	return r.list(query, applicantID, entity.VerificationRejected)
}

// Update escribe estado y correction_history en una sola sentencia.
func (r *DataVerificationRepo) Update(v *entity.DataVerification) error {
	query := `
		UPDATE data_verifications
		SET status = $2, field_value = $3, rejection_reason = $4, rejected_at = $5,
		    corrected_at = $6, correction_history = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Status, v.FieldValue, v.RejectionReason, v.RejectedAt,
		v.CorrectedAt, v.History, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	return nil
}

func (r *DataVerificationRepo) list(query string, args ...any) ([]*entity.DataVerification, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.DataVerification
	for rows.Next() {
		var v entity.DataVerification
		if err := scanVerification(rows, &v); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

func scanVerification(row pgx.Row, v *entity.DataVerification) error {
	return row.Scan(
		&v.ID, &v.TenantID, &v.ApplicantID, &v.FieldName, &v.Status, &v.FieldValue,
		&v.RejectionReason, &v.RejectedAt, &v.CorrectedAt, &v.History, &v.CreatedAt, &v.UpdatedAt,
	)
}
