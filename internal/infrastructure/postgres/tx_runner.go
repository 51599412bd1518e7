package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/loans"
	"github.com/credipronto/originacion-api/internal/domain/repository"
)

// Ensure TxRunner implements loans.TxRunner and corrections.TxRunner.
var _ loans.TxRunner = (*TxRunner)(nil)
var _ corrections.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	apps repository.ApplicationRepository,
	audit repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewApplicationRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunApplicant inicia una transacción serializada por solicitante: toma un
// advisory lock transaccional sobre el applicantID antes de ejecutar fn. Dos
// correcciones (o revisiones de documento) concurrentes del mismo solicitante
// se ejecutan una después de la otra, nunca sobre snapshots cruzados.
func (r *TxRunner) RunApplicant(ctx context.Context, applicantID string, fn func(repos corrections.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// El lock se libera solo en commit/rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, applicantID); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	repos := corrections.Repos{
		Applicants:    NewApplicantRepository(tx),
		Addresses:     NewAddressRepository(tx),
		Employments:   NewEmploymentRepository(tx),
		Verifications: NewDataVerificationRepository(tx),
		Applications:  NewApplicationRepository(tx),
		Documents:     NewDocumentRepository(tx),
		Audit:         NewAuditRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
