package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// LedgerUseCase es el único componente autorizado a mutar Product.Stock.
// Cada movimiento se aplica con bloqueo de fila (SELECT FOR UPDATE) y deja un
// registro inmutable con snapshots de stock antes/después, en la misma
// transacción que la escritura del stock.
type LedgerUseCase struct {
	txRunner TxRunner
	policy   authz.Policy
	notifier LowStockNotifier
}

// NewLedgerUseCase construye el ledger. notifier puede ser nil (sin avisos).
func NewLedgerUseCase(txRunner TxRunner, policy authz.Policy, notifier LowStockNotifier) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, policy: policy, notifier: notifier}
}

// ApplyMovementInput entrada para aplicar un movimiento manual.
// Para entrada/salida, Quantity > 0; para ajuste, Quantity >= 0 (es el nuevo
// stock absoluto).
type ApplyMovementInput struct {
	ProductID      string
	UserID         string
	Role           string
	Type           string
	Quantity       int
	Description    string
	DocumentNumber string
}

// Apply registra un movimiento manual: valida la entrada y el permiso del
// actor, ejecuta la mutación dentro de una transacción y, tras el commit,
// avisa si el producto quedó en o bajo su umbral de reposición.
func (uc *LedgerUseCase) Apply(ctx context.Context, input ApplyMovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if err := validateQuantity(input.Type, input.Quantity); err != nil {
		return nil, err
	}

	// El ajuste fija stock de forma absoluta: operación de supervisión.
	op := authz.OpInventarioMovimiento
	if input.Type == entity.MovementAjuste {
		op = authz.OpInventarioAjuste
	}
	if !uc.policy.May(input.Role, op) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var movement *entity.StockMovement
	var product *entity.Product

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		movement, err = uc.ApplyInTx(movRepo, productRepo,
			input.ProductID, input.Type, input.Quantity,
			input.UserID, input.Description, input.DocumentNumber, now)
		if err != nil {
			return err
		}
		product, err = productRepo.GetByID(input.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.maybeNotifyLowStock(product)
	return movement, nil
}

// ApplyInTx aplica un movimiento usando repositorios del caller (misma
// transacción). Lo usa el coordinador de ventas para la salida/reversión por
// línea; esas llamadas vienen pre-autorizadas por la verificación del propio
// coordinador, por lo que aquí no se consulta la política.
func (uc *LedgerUseCase) ApplyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID, movementType string,
	quantity int,
	userID, description, documentNumber string,
	now time.Time,
) (*entity.StockMovement, error) {
	if err := validateQuantity(movementType, quantity); err != nil {
		return nil, err
	}

	// Bloquea la fila del producto: dos movimientos concurrentes sobre el
	// mismo producto no pueden leer el mismo stock-anterior.
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	before := product.Stock
	after, err := stockAfter(movementType, before, quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, product.Name)
	}

	if err := productRepo.UpdateStock(productID, after); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		UserID:         userID,
		Type:           movementType,
		Quantity:       quantity,
		StockBefore:    before,
		StockAfter:     after,
		Date:           now,
		Description:    description,
		DocumentNumber: documentNumber,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// maybeNotifyLowStock avisa en segundo plano si el producto quedó en o bajo
// su umbral. El fallo se registra y nunca afecta al movimiento ya confirmado.
func (uc *LedgerUseCase) maybeNotifyLowStock(product *entity.Product) {
	if uc.notifier == nil || product == nil || !product.NeedsRestock() {
		return
	}
	go func(p entity.Product) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.notifier.NotifyLowStock(ctx, &p); err != nil {
			log.Warn().Err(err).
				Str("product_id", p.ID).
				Int("stock", p.Stock).
				Int("min_stock", p.MinStock).
				Msg("no se pudo notificar stock bajo")
		}
	}(*product)
}

// NotifyIfLowStock expone el aviso post-commit para otros casos de uso que
// aplican movimientos vía ApplyInTx (ej: coordinador de ventas).
func (uc *LedgerUseCase) NotifyIfLowStock(product *entity.Product) {
	uc.maybeNotifyLowStock(product)
}

// validateQuantity aplica las restricciones de cantidad por tipo.
func validateQuantity(movementType string, quantity int) error {
	switch movementType {
	case entity.MovementEntrada, entity.MovementSalida:
		if quantity <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.MovementAjuste:
		if quantity < 0 {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// stockAfter calcula el stock resultante según el tipo de movimiento.
func stockAfter(movementType string, before, quantity int) (int, error) {
	var after int
	switch movementType {
	case entity.MovementEntrada:
		after = before + quantity
	case entity.MovementSalida:
		after = before - quantity
	case entity.MovementAjuste:
		after = quantity
	default:
		return 0, domain.ErrInvalidInput
	}
	if after < 0 {
		return 0, domain.ErrInsufficientStock
	}
	return after, nil
}
