package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "nombre, apellido, email, telefono, direccion"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	customer, err := h.uc.Create(GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// Update godoc
// @Summary      Actualizar cliente (parcial)
// @Description  Los cajeros solo pueden modificar nombre, apellido, telefono y email.
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [patch]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	customer, err := h.uc.Update(GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// GetByID obtiene un cliente.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// List lista clientes paginados.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	result, err := h.uc.List(c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Delete elimina un cliente (solo administradores).
// DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetRole(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
