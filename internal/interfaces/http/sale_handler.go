package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/application/sales"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc     *sales.SaleUseCase
	ticket *billing.TicketUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, ticket *billing.TicketUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, ticket: ticket}
}

// Create godoc
// @Summary      Crear venta
// @Description  Crea la venta, descuenta stock por línea y calcula el total en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "customer_id, payment_method, lines"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	sale, err := h.uc.CreateSale(c.Context(), sales.CreateSaleInput{
		UserID:        GetUserID(c),
		Role:          GetRole(c),
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Lines:         in.Lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Revierte el stock con entradas compensatorias y marca la venta como cancelada. Los cajeros solo cancelan sus ventas.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  true  "reason"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	sale, err := h.uc.CancelSale(c.Context(), c.Params("id"), GetUserID(c), GetRole(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// GetByID godoc
// @Summary      Obtener venta con detalles
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.Context(), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// List godoc
// @Summary      Listar ventas
// @Description  Filtros: status, from/to. Los cajeros solo ven sus propias ventas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	var err error
	if filter.From, err = parseDateQuery(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida"})
	}
	if filter.To, err = parseDateQuery(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida"})
	}
	result, err := h.uc.ListSales(c.Context(), GetUserID(c), GetRole(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Ticket godoc
// @Summary      Descargar ticket de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/ticket [get]
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.ticket.DownloadTicketPDF(c.Context(), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
