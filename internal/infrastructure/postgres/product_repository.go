package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "id, barcode, name, description, price, stock, min_stock, category_id, status, created_at, updated_at"

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Stock inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, barcode, name, description, price, stock, min_stock, category_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.Barcode), product.Name, product.Description,
		product.Price, product.Stock, product.MinStock, product.CategoryID,
		product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE barcode = $1"
	return r.scanOne(r.q.QueryRow(context.Background(), query, barcode), "get product by barcode")
}

// GetForUpdate bloquea la fila del producto dentro de la transacción actual.
// Usar solo con un Querier atado a una tx.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1 FOR UPDATE"
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// Update actualiza un producto existente. No toca la columna stock: esa solo
// la escribe UpdateStock desde el ledger.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET barcode = $2, name = $3, description = $4, price = $5, min_stock = $6, category_id = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.Barcode), product.Name, product.Description,
		product.Price, product.MinStock, product.CategoryID, product.Status, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe el nuevo stock del producto (usado solo por el ledger).
func (r *ProductRepo) UpdateStock(productID string, stock int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// List lista productos con búsqueda por nombre o código de barras y filtros.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR barcode ILIKE $%d)", pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock devuelve los productos activos con stock <= min_stock, los más
// deficitarios primero.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := "SELECT " + productColumns + ` FROM products
		WHERE status = $1 AND stock <= min_stock
		ORDER BY (min_stock - stock) DESC, name ASC`
	rows, err := r.q.Query(context.Background(), query, entity.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	var barcode *string
	err := row.Scan(
		&p.ID, &barcode, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.MinStock, &p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var barcode *string
		if err := rows.Scan(&p.ID, &barcode, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.MinStock, &p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if barcode != nil {
			p.Barcode = *barcode
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// nullIfEmpty persiste NULL en vez de "" para columnas con unique parcial.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
