package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo implementación del puerto AddressRepository sobre PostgreSQL (usable con pool o tx).
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de persistencia para domicilios. Pasar pool o tx (Querier).
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

const addressColumns = `id, tenant_id, applicant_id, type, is_primary, street, ext_number, int_number, neighborhood, postal_code, municipality, state, created_at, updated_at`

// Create persiste un domicilio.
func (r *AddressRepo) Create(a *entity.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.TenantID, a.ApplicantID, a.Type, a.IsPrimary, a.Street, a.ExtNumber,
		a.IntNumber, a.Neighborhood, a.PostalCode, a.Municipality, a.State,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// GetPrimaryHome obtiene el domicilio principal tipo HOME del solicitante.
func (r *AddressRepo) GetPrimaryHome(applicantID string) (*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses WHERE applicant_id = $1 AND type = $2 AND is_primary`
	var a entity.Address
	err := r.q.QueryRow(context.Background(), query, applicantID, entity.AddressTypeHome).Scan(
		&a.ID, &a.TenantID, &a.ApplicantID, &a.Type, &a.IsPrimary, &a.Street, &a.ExtNumber,
		&a.IntNumber, &a.Neighborhood, &a.PostalCode, &a.Municipality, &a.State,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get primary home address: %w", err)
	}
	return &a, nil
}

// ListByApplicant lista los domicilios del solicitante.
func (r *AddressRepo) ListByApplicant(applicantID string) ([]*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses WHERE applicant_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Address
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.ApplicantID, &a.Type, &a.IsPrimary, &a.Street, &a.ExtNumber,
			&a.IntNumber, &a.Neighborhood, &a.PostalCode, &a.Municipality, &a.State,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Update actualiza un domicilio existente.
func (r *AddressRepo) Update(a *entity.Address) error {
	query := `
		UPDATE addresses
		SET street = $2, ext_number = $3, int_number = $4, neighborhood = $5, postal_code = $6,
		    municipality = $7, state = $8, is_primary = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Street, a.ExtNumber, a.IntNumber, a.Neighborhood, a.PostalCode,
		a.Municipality, a.State, a.IsPrimary, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

// ClearPrimary quita la marca de principal a los domicilios del tipo dado.
func (r *AddressRepo) ClearPrimary(applicantID, addressType string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE addresses SET is_primary = false, updated_at = now() WHERE applicant_id = $1 AND type = $2 AND is_primary`,
		applicantID, addressType,
	)
	if err != nil {
		return fmt.Errorf("clear primary address: %w", err)
	}
	return nil
}
