package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "activo"
	ProductStatusInactive = "inactivo"
)

// DefaultMinStock umbral de reposición si no se indica otro al crear el producto.
const DefaultMinStock = 5

// Product representa un producto del catálogo del punto de venta.
// Stock NUNCA se escribe directamente: toda mutación pasa por el ledger de
// movimientos dentro de una transacción con bloqueo de fila.
type Product struct {
	ID          string
	Barcode     string // código de barras, único (puede ser vacío)
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta, nunca negativo
	Stock       int             // invariante: >= 0 siempre
	MinStock    int             // umbral de reposición (default 5)
	CategoryID  *string
	Status      string // activo, inactivo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NeedsRestock indica si el producto está en o bajo su umbral de reposición.
func (p *Product) NeedsRestock() bool {
	return p.Stock <= p.MinStock
}
