package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para entrada/salida, quantity > 0; para ajuste, quantity es el nuevo
// stock absoluto (>= 0).
type RegisterMovementRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Quantity       int    `json:"quantity"`
	Description    string `json:"description" validate:"required"`
	DocumentNumber string `json:"document_number,omitempty"`
}

// MovementResponse respuesta de un movimiento registrado.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	StockBefore    int       `json:"stock_before"`
	StockAfter     int       `json:"stock_after"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	DocumentNumber string    `json:"document_number,omitempty"`
}

// MovementListResponse listado de movimientos (orden fecha descendente).
type MovementListResponse struct {
	Items  []MovementResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
