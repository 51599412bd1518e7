package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de persistencia para documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, tenant_id, application_id, type, status, file_name, storage_key, content_type, size, rejection_reason, reviewed_at, reviewed_by, superseded, created_at, updated_at`

// Create persiste los metadatos de un documento cargado.
func (r *DocumentRepo) Create(d *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.TenantID, d.ApplicationID, d.Type, d.Status, d.FileName, d.StorageKey,
		d.ContentType, d.Size, d.RejectionReason, d.ReviewedAt, d.ReviewedBy, d.Superseded,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var d entity.Document
	err := scanDocument(r.q.QueryRow(context.Background(), query, id), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// ListByApplication lista los documentos de una solicitud, más reciente primero.
func (r *DocumentRepo) ListByApplication(applicationID string) ([]*entity.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents WHERE application_id = $1 ORDER BY created_at DESC`
	return r.list(query, applicationID)
}

// ListRejectedByApplicant lista los rechazos vigentes (no superados) de todas
// las solicitudes del solicitante. Es la mitad documental de la compuerta del
// reconciliador: una sola fila aquí bloquea el cierre del ciclo.
func (r *DocumentRepo) ListRejectedByApplicant(applicantID string) ([]*entity.Document, error) {
	query := `
		SELECT d.` + docColumnsAliased + `
		FROM documents d
		JOIN applications a ON a.id = d.application_id
		WHERE a.applicant_id = $1 AND d.status = $2 AND NOT d.superseded
		ORDER BY d.created_at`
	return r.list(query, applicantID, entity.DocumentRejected)
}

// Update actualiza el estado de revisión de un documento.
func (r *DocumentRepo) Update(d *entity.Document) error {
	query := `
		UPDATE documents
		SET status = $2, rejection_reason = $3, reviewed_at = $4, reviewed_by = $5, superseded = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Status, d.RejectionReason, d.ReviewedAt, d.ReviewedBy, d.Superseded, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// SupersedeRejected marca como superados los rechazos del tipo canónico dado en
// la solicitud. El tipo en la fila puede ser el canónico o cualquiera de sus
// alias; se comparan resueltos.
func (r *DocumentRepo) SupersedeRejected(applicationID string, canonicalType entity.DocumentType) error {
	docs, err := r.ListByApplication(applicationID)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.Status != entity.DocumentRejected || d.Superseded {
			continue
		}
		if d.Type.Canonical() != canonicalType {
			continue
		}
		_, err := r.q.Exec(context.Background(),
			`UPDATE documents SET superseded = true, updated_at = now() WHERE id = $1`, d.ID,
		)
		if err != nil {
			return fmt.Errorf("supersede document: %w", err)
		}
	}
	return nil
}

// docColumnsAliased columnas con prefijo de alias "d." listo para el JOIN.
const docColumnsAliased = `id, d.tenant_id, d.application_id, d.type, d.status, d.file_name, d.storage_key, d.content_type, d.size, d.rejection_reason, d.reviewed_at, d.reviewed_by, d.superseded, d.created_at, d.updated_at`

func (r *DocumentRepo) list(query string, args ...any) ([]*entity.Document, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func scanDocument(row pgx.Row, d *entity.Document) error {
	return row.Scan(
		&d.ID, &d.TenantID, &d.ApplicationID, &d.Type, &d.Status, &d.FileName, &d.StorageKey,
		&d.ContentType, &d.Size, &d.RejectionReason, &d.ReviewedAt, &d.ReviewedBy, &d.Superseded,
		&d.CreatedAt, &d.UpdatedAt,
	)
}
