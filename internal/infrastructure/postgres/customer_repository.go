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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = "id, first_name, last_name, email, phone, address, created_at, updated_at"

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.FirstName, customer.LastName,
		nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE id = $1"
	var c entity.Customer
	var email, phone, address *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	applyOptional(&c, email, phone, address)
	return &c, nil
}

// Update actualiza un cliente existente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.FirstName, customer.LastName,
		nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address),
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// List lista clientes con paginación, orden alfabético.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers ORDER BY last_name, first_name LIMIT $1 OFFSET $2"
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var email, phone, address *string
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		applyOptional(&c, email, phone, address)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func applyOptional(c *entity.Customer, email, phone, address *string) {
	if email != nil {
		c.Email = *email
	}
	if phone != nil {
		c.Phone = *phone
	}
	if address != nil {
		c.Address = *address
	}
}
