package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de la venta: producto y cantidad. El precio se
// toma siempre del producto al momento de la venta, nunca del cliente HTTP.
type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CancelSaleRequest body para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SaleDetailResponse una línea de la venta en la respuesta.
type SaleDetailResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse respuesta de venta con sus detalles.
type SaleResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	CustomerID    *string              `json:"customer_id,omitempty"`
	Date          time.Time            `json:"date"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod string               `json:"payment_method"`
	Status        string               `json:"status"`
	CancelReason  string               `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	CancelledBy   *string              `json:"cancelled_by,omitempty"`
	Details       []SaleDetailResponse `json:"details"`
}

// SaleListResponse listado paginado de ventas (sin detalles).
type SaleListResponse struct {
	Items  []SaleResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
