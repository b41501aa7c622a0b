package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido):
// registro de movimientos, historial y lista de reposición.
type InventoryHandler struct {
	ledger      *inventory.LedgerUseCase
	movementLog *inventory.MovementLogUseCase
	reposition  *inventory.RepositionUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.LedgerUseCase,
	movementLog *inventory.MovementLogUseCase,
	reposition *inventory.RepositionUseCase,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, movementLog: movementLog, reposition: reposition}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  entrada/salida suman o restan cantidad; ajuste fija el stock absoluto (solo administradores).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, description, document_number"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	movement, err := h.ledger.Apply(c.Context(), inventory.ApplyMovementInput{
		ProductID:      in.ProductID,
		UserID:         GetUserID(c),
		Role:           GetRole(c),
		Type:           in.Type,
		Quantity:       in.Quantity,
		Description:    in.Description,
		DocumentNumber: in.DocumentNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Filtros: from/to (RFC3339 o YYYY-MM-DD), type (entrada|salida|ajuste), product_id. Orden: fecha descendente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	q := inventory.MovementQuery{
		Type:      c.Query("type"),
		ProductID: c.Query("product_id"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}
	var err error
	if q.From, err = parseDateQuery(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida"})
	}
	if q.To, err = parseDateQuery(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida"})
	}
	result, err := h.movementLog.Query(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// LowStock godoc
// @Summary      Productos en o bajo su umbral de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.reposition.ListLowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ProductResponse{
			ID:       p.ID,
			Barcode:  p.Barcode,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			MinStock: p.MinStock,
			Status:   p.Status,
			LowStock: true,
		})
	}
	return c.JSON(fiber.Map{"total": len(items), "products": items})
}

// RepositionList godoc
// @Summary      Lista de reposición sugerida
// @Description  Cantidad sugerida para volver al doble del umbral, ordenada por déficit (priority 1 = más urgente).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/inventory/reposition [get]
func (h *InventoryHandler) RepositionList(c *fiber.Ctx) error {
	suggestions, err := h.reposition.Suggestions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(suggestions), "suggestions": suggestions})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		UserID:         m.UserID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		Date:           m.Date,
		Description:    m.Description,
		DocumentNumber: m.DocumentNumber,
	}
}

// parseDateQuery acepta RFC3339 o YYYY-MM-DD. Para el límite superior (endOfDay)
// de una fecha sin hora, el filtro cubre el día completo.
func parseDateQuery(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
