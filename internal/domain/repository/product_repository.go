package repository

import "github.com/tu-usuario/pos-backend/internal/domain/entity"

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search     string // nombre o código de barras (icontains)
	Status     string // activo, inactivo; vacío = todos
	CategoryID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock NO es editable vía Create/Update: solo UpdateStock, y únicamente
// desde el ledger dentro de una transacción con la fila bloqueada.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro
	// de la transacción actual. Usar solo con un Querier atado a una tx.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock int) error
	List(filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock devuelve los productos con stock <= min_stock.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
