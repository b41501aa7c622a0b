package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// SaleLineForPDF línea de venta enriquecida con el nombre del producto para
// imprimirla en el ticket.
type SaleLineForPDF struct {
	entity.SaleDetail
	ProductName string
}

// TicketPDFGenerator puerto para la generación del ticket de venta en PDF.
type TicketPDFGenerator interface {
	GenerateTicketPDF(
		ctx context.Context,
		sale *entity.Sale,
		customer *entity.Customer,
		cashier *entity.User,
		lines []SaleLineForPDF,
	) ([]byte, error)
}

// TicketUseCase genera el comprobante (ticket) de una venta completada.
type TicketUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	generator    TicketPDFGenerator
	policy       authz.Policy
}

// NewTicketUseCase construye el caso de uso inyectando todas sus dependencias.
func NewTicketUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	generator TicketPDFGenerator,
	policy authz.Policy,
) *TicketUseCase {
	return &TicketUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		generator:    generator,
		policy:       policy,
	}
}

// DownloadTicketPDF carga la venta con sus detalles y genera el ticket.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si un cajero pide el ticket de una venta ajena.
//   - domain.ErrInvalidState     si la venta sigue pendiente.
func (uc *TicketUseCase) DownloadTicketPDF(
	ctx context.Context,
	saleID, userID, role string,
) (pdfBytes []byte, filename string, err error) {
	if !uc.policy.May(role, authz.OpVentasVer) {
		return nil, "", domain.ErrForbidden
	}

	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("ticket: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if role == entity.RoleCajero && sale.UserID != userID {
		return nil, "", domain.ErrForbidden
	}
	if sale.Status == entity.SaleStatusPending {
		return nil, "", domain.ErrInvalidState
	}

	var customer *entity.Customer
	if sale.CustomerID != nil {
		customer, err = uc.customerRepo.GetByID(*sale.CustomerID)
		if err != nil {
			return nil, "", fmt.Errorf("ticket: obtener cliente: %w", err)
		}
	}

	cashier, err := uc.userRepo.GetByID(sale.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("ticket: obtener cajero: %w", err)
	}

	rawDetails, err := uc.saleRepo.GetDetailsBySaleID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("ticket: obtener detalles: %w", err)
	}

	lines := make([]SaleLineForPDF, 0, len(rawDetails))
	for _, d := range rawDetails {
		name := "Producto " + d.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(d.ProductID); pErr == nil && product != nil {
			name = product.Name
		}
		lines = append(lines, SaleLineForPDF{
			SaleDetail:  *d,
			ProductName: name,
		})
	}

	pdfBytes, err = uc.generator.GenerateTicketPDF(ctx, sale, customer, cashier, lines)
	if err != nil {
		return nil, "", fmt.Errorf("ticket: generar PDF: %w", err)
	}

	return pdfBytes, fmt.Sprintf("ticket-%s.pdf", sale.ID), nil
}
