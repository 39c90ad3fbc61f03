package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
)

var _ withholding.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El cálculo de retenciones lee la foto del período y escribe sus líneas con este runner.
func (r *TxRunner) Run(ctx context.Context, fn func(repos withholding.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el paquete de repositorios sobre un pool o una transacción.
func NewRepos(q Querier) withholding.Repos {
	return withholding.Repos{
		Companies:    NewCompanyRepository(q),
		Parties:      NewPartyRepository(q),
		Regimes:      NewRegimeRepository(q),
		Vouchers:     NewVoucherRepository(q),
		Invoices:     NewInvoiceRepository(q),
		Withholdings: NewWithholdingRepository(q),
	}
}
