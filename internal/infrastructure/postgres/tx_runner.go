package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/application/sales"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

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
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, productRepo); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSale inicia una transacción con repos de inventario y ventas (para crear
// o cancelar una venta como unidad atómica).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	productRepo := NewProductRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(movRepo, productRepo, saleRepo); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapTxError traduce fallos de concurrencia de Postgres al error de dominio
// para que la capa HTTP pueda responder 409 y el cliente reintente.
func mapTxError(err error) error {
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
