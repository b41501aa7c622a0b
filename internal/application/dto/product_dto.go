package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. El stock inicial se
// registra como un movimiento de ajuste, no como campo del producto.
type CreateProductRequest struct {
	Barcode     string          `json:"barcode,omitempty"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinStock    *int            `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	CategoryID  *string         `json:"category_id,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Stock no es editable.
type UpdateProductRequest struct {
	Barcode     *string          `json:"barcode,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	MinStock    *int             `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=activo inactivo"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Barcode     string          `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Status      string          `json:"status"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// RepositionSuggestionDTO sugerencia de reposición para un producto en o bajo
// su umbral de reorden.
type RepositionSuggestionDTO struct {
	ProductID    string `json:"product_id"`
	Barcode      string `json:"barcode,omitempty"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	MinStock     int    `json:"min_stock"`
	SuggestedQty int    `json:"suggested_qty"` // 2*min_stock - stock
	Priority     int    `json:"priority"`      // 1 = más urgente
}
