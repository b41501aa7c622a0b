package repository

import (
	"time"

	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas.
type SaleFilter struct {
	UserID string // restringe a ventas de un cajero; vacío = todas
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas y sus detalles.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateDetail(detail *entity.SaleDetail) error
	GetByID(id string) (*entity.Sale, error)
	GetDetailsBySaleID(saleID string) ([]*entity.SaleDetail, error)
	Update(sale *entity.Sale) error
	List(filter SaleFilter) ([]*entity.Sale, error)
}
