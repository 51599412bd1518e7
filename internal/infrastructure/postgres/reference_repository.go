package postgres

import (
	"context"
	"fmt"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo implementación del puerto ReferenceRepository sobre PostgreSQL (usable con pool o tx).
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador de persistencia para referencias. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

// Create persiste una referencia personal.
func (r *ReferenceRepo) Create(ref *entity.Reference) error {
	query := `
		INSERT INTO references_personal (id, tenant_id, application_id, name, phone, relationship, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		ref.ID, ref.TenantID, ref.ApplicationID, ref.Name, ref.Phone, ref.Relationship, ref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}

// ListByApplication lista las referencias de una solicitud.
func (r *ReferenceRepo) ListByApplication(applicationID string) ([]*entity.Reference, error) {
	query := `
		SELECT id, tenant_id, application_id, name, phone, relationship, created_at
		FROM references_personal WHERE application_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reference
	for rows.Next() {
		var ref entity.Reference
		if err := rows.Scan(&ref.ID, &ref.TenantID, &ref.ApplicationID, &ref.Name, &ref.Phone, &ref.Relationship, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		list = append(list, &ref)
	}
	return list, rows.Err()
}

// CountByApplication cuenta las referencias de una solicitud.
func (r *ReferenceRepo) CountByApplication(applicationID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM references_personal WHERE application_id = $1`, applicationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}
	return count, nil
}
