package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario y ventas. La creación y la cancelación de una
// venta son cada una una única transacción: o se confirma todo (venta,
// detalles y movimientos de stock) o no queda nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// StockLedger integra el coordinador de ventas con el ledger de inventario.
// ApplyInTx aplica un movimiento usando los repositorios del caller (misma
// transacción); si retorna error (ej: ErrInsufficientStock), el caller debe
// dejar que la transacción haga rollback.
type StockLedger interface {
	ApplyInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID, movementType string,
		quantity int,
		userID, description, documentNumber string,
		now time.Time,
	) (*entity.StockMovement, error)
	// NotifyIfLowStock emite el aviso fire-and-forget tras el commit.
	NotifyIfLowStock(product *entity.Product)
}
