package loans

import (
	"context"

	"github.com/credipronto/originacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que estado, historial y auditoría
// se confirmen juntos o no se confirme nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		apps repository.ApplicationRepository,
		audit repository.AuditRepository,
	) error) error
}
