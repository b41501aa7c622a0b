package inventory

import (
	"context"

	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger: lectura
// del stock, validación, escritura y registro del movimiento son una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// LowStockNotifier recibe el aviso de que un producto quedó en o bajo su
// umbral de reposición. Es fire-and-forget: un fallo se registra en el log
// y nunca bloquea ni revierte el movimiento que lo originó.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, product *entity.Product) error
}
