package sales

import (
	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// SaleUseCase coordina la transacción de venta: verifica disponibilidad de
// stock, crea la venta con sus detalles, descuenta inventario vía el ledger
// (una salida por línea) y calcula el total. La cancelación revierte con
// movimientos de entrada compensatorios.
type SaleUseCase struct {
	txRunner     TxRunner
	ledger       StockLedger
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	policy       authz.Policy
}

// NewSaleUseCase construye el coordinador.
func NewSaleUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	policy authz.Policy,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		policy:       policy,
	}
}

func toSaleResponse(sale *entity.Sale, details []*entity.SaleDetail) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		UserID:        sale.UserID,
		CustomerID:    sale.CustomerID,
		Date:          sale.Date,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		CancelReason:  sale.CancelReason,
		CancelledAt:   sale.CancelledAt,
		CancelledBy:   sale.CancelledBy,
		Details:       make([]dto.SaleDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.SaleDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	return resp
}
