package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes. Los cajeros pueden crear y editar
// clientes, pero solo los campos de contacto; el resto es de administradores.
type CustomerUseCase struct {
	repo   repository.CustomerRepository
	policy authz.Policy
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, policy authz.Policy) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, policy: policy}
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(role string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if !uc.policy.May(role, authz.OpClientesCrear) {
		return nil, domain.ErrForbidden
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Update actualiza un cliente. Si el rol es cajero, un campo fuera de su
// lista permitida (nombre, apellido, telefono, email) devuelve ErrForbidden.
func (uc *CustomerUseCase) Update(role, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if !uc.policy.May(role, authz.OpClientesEditar) {
		return nil, domain.ErrForbidden
	}
	if role == entity.RoleCajero {
		for _, field := range requestedFields(in) {
			if !authz.CajeroCustomerFields[field] {
				return nil, domain.ErrForbidden
			}
		}
	}
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		if *in.FirstName == "" {
			return nil, domain.ErrInvalidInput
		}
		customer.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if *in.LastName == "" {
			return nil, domain.ErrInvalidInput
		}
		customer.LastName = *in.LastName
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes paginados.
func (uc *CustomerUseCase) List(limit, offset int) (*dto.CustomerListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// Delete elimina un cliente (solo administradores por política).
func (uc *CustomerUseCase) Delete(role, id string) error {
	if !uc.policy.May(role, authz.OpClientesEliminar) {
		return domain.ErrForbidden
	}
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// requestedFields lista los campos presentes en una actualización parcial,
// con los nombres JSON que usa la política de cajero.
func requestedFields(in dto.UpdateCustomerRequest) []string {
	var fields []string
	if in.FirstName != nil {
		fields = append(fields, "nombre")
	}
	if in.LastName != nil {
		fields = append(fields, "apellido")
	}
	if in.Email != nil {
		fields = append(fields, "email")
	}
	if in.Phone != nil {
		fields = append(fields, "telefono")
	}
	if in.Address != nil {
		fields = append(fields, "direccion")
	}
	return fields
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
