package repository

import (
	"time"

	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

// MovementFilter filtros de consulta del historial de movimientos.
type MovementFilter struct {
	From      *time.Time
	To        *time.Time
	Type      string // entrada, salida, ajuste; vacío = todos
	ProductID string
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para movimientos
// de inventario (DIP). Solo inserta y consulta: los movimientos son el
// registro de auditoría y nunca se actualizan ni eliminan.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List devuelve movimientos ordenados por fecha descendente.
	List(filter MovementFilter) ([]*entity.StockMovement, error)
}
