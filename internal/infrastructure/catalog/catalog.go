// Package catalog catálogo de producto respaldado por configuración: qué
// documentos exige cada producto. Los tipos con alias se normalizan al cargar.
package catalog

import (
	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/internal/domain/entity"
	"github.com/credipronto/originacion-api/pkg/config"
)

var _ ports.ProductCatalog = (*ConfigCatalog)(nil)

// ConfigCatalog implementa ProductCatalog con la lista fija de la configuración.
// Hoy la lista es única por despliegue; la firma por tenant y producto queda
// para cuando el catálogo viva en la BD.
type ConfigCatalog struct {
	required []entity.DocumentType
}

// New construye el catálogo desde la política configurada.
func New(cfg config.PolicyConfig) *ConfigCatalog {
	required := make([]entity.DocumentType, 0, len(cfg.RequiredDocuments))
	for _, raw := range cfg.RequiredDocuments {
		required = append(required, entity.DocumentType(raw).Canonical())
	}
	return &ConfigCatalog{required: required}
}

// RequiredDocuments devuelve los tipos de documento requeridos.
func (c *ConfigCatalog) RequiredDocuments(tenantID, purpose string) []entity.DocumentType {
	out := make([]entity.DocumentType, len(c.required))
	copy(out, c.required)
	return out
}
