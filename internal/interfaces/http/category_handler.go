package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-backend/internal/application/usecase"
)

// categoryRequest body de creación/actualización de categoría.
type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CategoryHandler maneja las peticiones HTTP de categorías (protegido).
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create crea una categoría.
// POST /api/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in categoryRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	category, err := h.uc.Create(in.Name, in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// Update actualiza una categoría.
// PUT /api/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in categoryRequest
	if ok, resp := parseBody(c, &in); !ok {
		return resp
	}
	category, err := h.uc.Update(c.Params("id"), in.Name, in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// List lista todas las categorías.
// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "categories": list})
}

// Delete elimina una categoría.
// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
