package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementEntrada = "entrada" // suma cantidad al stock
	MovementSalida  = "salida"  // resta cantidad del stock
	MovementAjuste  = "ajuste"  // fija el stock en un valor absoluto
)

// IsValidMovementType valida el tipo de movimiento.
func IsValidMovementType(t string) bool {
	return t == MovementEntrada || t == MovementSalida || t == MovementAjuste
}

// StockMovement representa un movimiento de inventario. Inmutable una vez
// creado: es el registro de auditoría del stock. StockBefore/StockAfter son
// los snapshots tomados dentro de la misma transacción que mutó el producto.
type StockMovement struct {
	ID             string
	ProductID      string
	UserID         string // actor que originó el movimiento
	Type           string // entrada, salida, ajuste
	Quantity       int    // positivo para entrada/salida; para ajuste es el nuevo stock absoluto
	StockBefore    int
	StockAfter     int
	Date           time.Time
	Description    string
	DocumentNumber string // referencia externa opcional (ej: V-123, RC-123)
}
