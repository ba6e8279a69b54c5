package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fiado-sync/internal/application/usecase"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

// Ensure TxRunner implements usecase.SadaqaTxRunner.
var _ usecase.SadaqaTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSadaqa inicia una transacción con repos de deudas y sadaqa atados a la tx
// y hace Commit o Rollback. El reparto de una donación toca deudas, cola y
// registros de donación: o entra todo o no entra nada.
func (r *TxRunner) RunSadaqa(ctx context.Context, fn func(
	debtRepo repository.DebtRepository,
	sadaqaRepo repository.SadaqaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	debtRepo := NewDebtRepository(tx)
	sadaqaRepo := NewSadaqaRepository(tx)

	if err := fn(debtRepo, sadaqaRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
