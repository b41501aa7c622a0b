package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// CancelSale cancela una venta completada: aplica una entrada compensatoria
// por cada detalle (restaura stock) y marca la venta como cancelada con
// motivo, fecha y actor. Cancelar una venta ya cancelada o aún pendiente
// falla con ErrInvalidState; nunca se revierte dos veces.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID, userID, role, reason string) (*dto.SaleResponse, error) {
	if !uc.policy.May(role, authz.OpVentasCancelar) {
		return nil, domain.ErrForbidden
	}
	if saleID == "" || userID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}

	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	// Los cajeros solo pueden cancelar sus propias ventas.
	if role == entity.RoleCajero && sale.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	var details []*entity.SaleDetail

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Revalidar el estado dentro de la transacción: dos cancelaciones
		// concurrentes no deben revertir el stock dos veces.
		current, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status != entity.SaleStatusCompleted {
			return domain.ErrInvalidState
		}

		details, err = saleRepo.GetDetailsBySaleID(saleID)
		if err != nil {
			return err
		}
		for _, detail := range details {
			if _, err := uc.ledger.ApplyInTx(movRepo, productRepo,
				detail.ProductID, entity.MovementEntrada, detail.Quantity,
				userID, fmt.Sprintf("Reversión por cancelación de Venta #%s", saleID),
				fmt.Sprintf("RC-%s", saleID), now); err != nil {
				return err
			}
		}

		sale = current
		sale.Status = entity.SaleStatusCancelled
		sale.CancelReason = reason
		sale.CancelledAt = &now
		sale.CancelledBy = &userID
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, details), nil
}

// GetSale obtiene una venta con sus detalles. Los cajeros solo ven las suyas.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID, userID, role string) (*dto.SaleResponse, error) {
	if !uc.policy.May(role, authz.OpVentasVer) {
		return nil, domain.ErrForbidden
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if role == entity.RoleCajero && sale.UserID != userID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.saleRepo.GetDetailsBySaleID(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, details), nil
}

// ListSales lista ventas sin detalles. Los cajeros solo ven las suyas.
func (uc *SaleUseCase) ListSales(ctx context.Context, userID, role string, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if !uc.policy.May(role, authz.OpVentasVer) {
		return nil, domain.ErrForbidden
	}
	if role == entity.RoleCajero {
		filter.UserID = userID
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.saleRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset}, nil
}
