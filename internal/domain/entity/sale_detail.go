package entity

import "github.com/shopspring/decimal"

// SaleDetail una línea de venta. UnitPrice es el precio del producto al
// momento de la venta; cambios posteriores del catálogo no lo afectan.
type SaleDetail struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ComputeSubtotal calcula Subtotal = Quantity * UnitPrice.
func (d *SaleDetail) ComputeSubtotal() {
	d.Subtotal = decimal.NewFromInt(int64(d.Quantity)).Mul(d.UnitPrice)
}
