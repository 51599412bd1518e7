// Package ports define los colaboradores externos del núcleo de originación.
// Ninguno está en la ruta crítica de correctitud salvo la persistencia.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// Notifier broadcast de eventos en tiempo real (dashboards de revisión en vivo).
// Las implementaciones nunca devuelven el error al flujo de negocio: registran y siguen.
type Notifier interface {
	Publish(event string, payload map[string]any)
}

// Geolocator resuelve una ubicación aproximada por IP para enriquecer la línea
// de tiempo. Contrato: best-effort, nunca falla al que llama; ok=false cuando
// no hay ubicación disponible.
type Geolocator interface {
	Locate(ip string) (location string, ok bool)
}

// FileStorage almacenamiento de archivos de documentos (S3 compatible).
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ProductCatalog provee la lista de documentos requeridos por producto.
// Es propiedad de la configuración de catálogo, no de este núcleo.
type ProductCatalog interface {
	RequiredDocuments(tenantID, purpose string) []entity.DocumentType
}
