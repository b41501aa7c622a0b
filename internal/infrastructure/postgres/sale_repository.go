package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = "id, user_id, customer_id, date, total, payment_method, status, cancel_reason, cancelled_at, cancelled_by, created_at"

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, user_id, customer_id, date, total, payment_method, status, cancel_reason, cancelled_at, cancelled_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.UserID, sale.CustomerID, sale.Date, sale.Total,
		sale.PaymentMethod, sale.Status, nullIfEmpty(sale.CancelReason),
		sale.CancelledAt, sale.CancelledBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de la venta.
func (r *SaleRepo) CreateDetail(detail *entity.SaleDetail) error {
	query := `
		INSERT INTO sale_details (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.SaleID, detail.ProductID, detail.Quantity,
		detail.UnitPrice, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale detail: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := "SELECT " + saleColumns + " FROM sales WHERE id = $1"
	var s entity.Sale
	var cancelReason *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.UserID, &s.CustomerID, &s.Date, &s.Total, &s.PaymentMethod,
		&s.Status, &cancelReason, &s.CancelledAt, &s.CancelledBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if cancelReason != nil {
		s.CancelReason = *cancelReason
	}
	return &s, nil
}

// GetDetailsBySaleID obtiene las líneas de una venta.
func (r *SaleRepo) GetDetailsBySaleID(saleID string) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_details WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale details: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera de la venta (total, estado, cancelación).
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET total = $2, status = $3, cancel_reason = $4, cancelled_at = $5, cancelled_by = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Total, sale.Status, nullIfEmpty(sale.CancelReason),
		sale.CancelledAt, sale.CancelledBy,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas (sin detalles) filtradas por cajero, estado y fechas,
// las más recientes primero.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) {
	query := "SELECT " + saleColumns + " FROM sales WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", pos)
		args = append(args, filter.UserID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var cancelReason *string
		if err := rows.Scan(&s.ID, &s.UserID, &s.CustomerID, &s.Date, &s.Total, &s.PaymentMethod,
			&s.Status, &cancelReason, &s.CancelledAt, &s.CancelledBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if cancelReason != nil {
			s.CancelReason = *cancelReason
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
