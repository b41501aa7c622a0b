package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una venta.
const (
	SaleStatusPending   = "pendiente"
	SaleStatusCompleted = "completada"
	SaleStatusCancelled = "cancelada"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// IsValidPaymentMethod valida el método de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale representa una venta del punto de venta. El total siempre se deriva de
// la suma de subtotales de sus detalles.
type Sale struct {
	ID            string
	UserID        string
	CustomerID    *string
	Date          time.Time
	Total         decimal.Decimal
	PaymentMethod string
	Status        string // pendiente, completada, cancelada
	CancelReason  string
	CancelledAt   *time.Time
	CancelledBy   *string
	CreatedAt     time.Time
}
