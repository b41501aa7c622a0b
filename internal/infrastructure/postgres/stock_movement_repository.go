package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = "id, product_id, user_id, type, quantity, stock_before, stock_after, date, description, document_number"

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo inserta y consulta: la tabla es el registro de auditoría del stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, user_id, type, quantity, stock_before, stock_after, date, description, document_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.UserID, movement.Type,
		movement.Quantity, movement.StockBefore, movement.StockAfter,
		movement.Date, movement.Description, nullIfEmpty(movement.DocumentNumber),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE id = $1"
	var m entity.StockMovement
	var document *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.UserID, &m.Type, &m.Quantity,
		&m.StockBefore, &m.StockAfter, &m.Date, &m.Description, &document,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if document != nil {
		m.DocumentNumber = *document
	}
	return &m, nil
}

// List lista movimientos filtrados por rango de fechas, tipo y producto,
// ordenados por fecha descendente.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE 1=1"
	args := []any{}
	pos := 1
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
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var document *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.UserID, &m.Type, &m.Quantity,
			&m.StockBefore, &m.StockAfter, &m.Date, &m.Description, &document); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if document != nil {
			m.DocumentNumber = *document
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
