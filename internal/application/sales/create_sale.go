package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// CreateSaleInput entrada para crear una venta.
type CreateSaleInput struct {
	UserID        string
	Role          string
	CustomerID    *string
	PaymentMethod string
	Lines         []dto.SaleLineRequest
}

// CreateSale crea la venta, descuenta inventario por cada línea y calcula el
// total, todo en una sola transacción. Si cualquier paso falla, no queda
// venta, detalle ni movimiento persistido (rollback completo).
func (uc *SaleUseCase) CreateSale(ctx context.Context, input CreateSaleInput) (*dto.SaleResponse, error) {
	if !uc.policy.May(input.Role, authz.OpVentasCrear) {
		return nil, domain.ErrForbidden
	}
	if input.UserID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	if input.CustomerID != nil {
		customer, err := uc.customerRepo.GetByID(*input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// Pre-chequeo de disponibilidad: la demanda se agrega por producto
	// (líneas repetidas suman). La garantía real es el bloqueo de fila
	// dentro de la transacción; esto evita abrirla para fallar seguro.
	demand := make(map[string]int)
	order := make([]string, 0, len(input.Lines))
	for _, line := range input.Lines {
		if _, seen := demand[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		demand[line.ProductID] += line.Quantity
	}
	productsByID := make(map[string]*entity.Product, len(demand))
	for _, productID := range order {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.Status != entity.ProductStatusActive {
			return nil, fmt.Errorf("%w: producto inactivo %s", domain.ErrInvalidInput, product.Name)
		}
		if product.Stock < demand[productID] {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}
		productsByID[productID] = product
	}

	now := time.Now()
	saleID := uuid.New().String()
	sale := &entity.Sale{
		ID:            saleID,
		UserID:        input.UserID,
		CustomerID:    input.CustomerID,
		Date:          now,
		Total:         decimal.Zero,
		PaymentMethod: input.PaymentMethod,
		Status:        entity.SaleStatusPending,
		CreatedAt:     now,
	}
	var details []*entity.SaleDetail
	var movements []*entity.StockMovement

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range input.Lines {
			product := productsByID[line.ProductID]

			// Snapshot del precio al momento de la venta: cambios
			// posteriores del catálogo no alteran la venta.
			detail := &entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			}
			detail.ComputeSubtotal()
			if err := saleRepo.CreateDetail(detail); err != nil {
				return err
			}
			details = append(details, detail)
			total = total.Add(detail.Subtotal)

			// Salida de inventario por línea, misma transacción. Con la
			// fila bloqueada, aquí se revalida el stock: si no alcanza,
			// rollback de toda la venta.
			movement, err := uc.ledger.ApplyInTx(movRepo, productRepo,
				line.ProductID, entity.MovementSalida, line.Quantity,
				input.UserID, fmt.Sprintf("Venta #%s", saleID), fmt.Sprintf("V-%s", saleID), now)
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		// Total derivado de los subtotales, nunca asignado aparte.
		sale.Total = total
		sale.Status = entity.SaleStatusCompleted
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}

	// Avisos de stock bajo solo después del commit.
	uc.notifyLowStockAfterSale(productsByID, movements)

	return toSaleResponse(sale, details), nil
}

// notifyLowStockAfterSale emite un aviso por cada producto cuyo último
// movimiento de la venta lo dejó en o bajo su umbral.
func (uc *SaleUseCase) notifyLowStockAfterSale(productsByID map[string]*entity.Product, movements []*entity.StockMovement) {
	finalStock := make(map[string]int, len(movements))
	for _, m := range movements {
		finalStock[m.ProductID] = m.StockAfter
	}
	for productID, stock := range finalStock {
		product := productsByID[productID]
		if product == nil {
			continue
		}
		p := *product
		p.Stock = stock
		uc.ledger.NotifyIfLowStock(&p)
	}
}
