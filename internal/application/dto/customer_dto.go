package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"telefono,omitempty"`
	Address   string `json:"direccion,omitempty"`
}

// UpdateCustomerRequest body para PATCH /api/customers/:id. Los cajeros solo
// pueden modificar nombre, apellido, telefono y email.
type UpdateCustomerRequest struct {
	FirstName *string `json:"nombre,omitempty"`
	LastName  *string `json:"apellido,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"telefono,omitempty"`
	Address   *string `json:"direccion,omitempty"`
}

// CustomerResponse respuesta de cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"telefono,omitempty"`
	Address   string    `json:"direccion,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items  []CustomerResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
