package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

type memCustomers struct {
	byID map[string]*entity.Customer
}

func newMemCustomers(customers ...*entity.Customer) *memCustomers {
	m := &memCustomers{byID: map[string]*entity.Customer{}}
	for _, c := range customers {
		cp := *c
		m.byID[c.ID] = &cp
	}
	return m
}

func (m *memCustomers) Create(c *entity.Customer) error {
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCustomers) GetByID(id string) (*entity.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomers) Update(c *entity.Customer) error {
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCustomers) List(limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, c := range m.byID {
		cp := *c
		list = append(list, &cp)
	}
	return list, nil
}

func (m *memCustomers) Delete(id string) error {
	delete(m.byID, id)
	return nil
}

func ptr(s string) *string { return &s }

func TestCustomerUpdate_CajeroSoloCamposDeContacto(t *testing.T) {
	repo := newMemCustomers(&entity.Customer{
		ID: "c1", FirstName: "Ana", LastName: "Pérez",
		Phone: "300111", Address: "Calle 1",
	})
	uc := billing.NewCustomerUseCase(repo, authz.NewRolePolicy())

	// Campos de contacto: permitido.
	got, err := uc.Update(entity.RoleCajero, "c1", dto.UpdateCustomerRequest{
		Phone: ptr("300222"),
		Email: ptr("ana@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "300222", got.Phone)
	assert.Equal(t, "ana@example.com", got.Email)

	// Dirección: fuera de la lista del cajero.
	_, err = uc.Update(entity.RoleCajero, "c1", dto.UpdateCustomerRequest{
		Address: ptr("Calle 2"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Mezcla de permitido y prohibido: se rechaza completo, sin escritura parcial.
	_, err = uc.Update(entity.RoleCajero, "c1", dto.UpdateCustomerRequest{
		Phone:   ptr("300333"),
		Address: ptr("Calle 3"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	current, _ := repo.GetByID("c1")
	assert.Equal(t, "300222", current.Phone)
	assert.Equal(t, "Calle 1", current.Address)
}

func TestCustomerUpdate_AdministradorEditaTodo(t *testing.T) {
	repo := newMemCustomers(&entity.Customer{ID: "c1", FirstName: "Ana", LastName: "Pérez"})
	uc := billing.NewCustomerUseCase(repo, authz.NewRolePolicy())

	got, err := uc.Update(entity.RoleAdministrador, "c1", dto.UpdateCustomerRequest{
		Address: ptr("Carrera 45 #10-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carrera 45 #10-20", got.Address)
}

func TestCustomerUpdate_NombreVacio(t *testing.T) {
	repo := newMemCustomers(&entity.Customer{ID: "c1", FirstName: "Ana", LastName: "Pérez"})
	uc := billing.NewCustomerUseCase(repo, authz.NewRolePolicy())

	_, err := uc.Update(entity.RoleAdministrador, "c1", dto.UpdateCustomerRequest{
		FirstName: ptr(""),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerCreate_CajeroPuedeCrear(t *testing.T) {
	uc := billing.NewCustomerUseCase(newMemCustomers(), authz.NewRolePolicy())

	got, err := uc.Create(entity.RoleCajero, dto.CreateCustomerRequest{
		FirstName: "Luis", LastName: "Gómez", Phone: "301555",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Luis", got.FirstName)
}

func TestCustomerDelete_SoloAdministrador(t *testing.T) {
	repo := newMemCustomers(&entity.Customer{ID: "c1", FirstName: "Ana", LastName: "Pérez"})
	uc := billing.NewCustomerUseCase(repo, authz.NewRolePolicy())

	err := uc.Delete(entity.RoleCajero, "c1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(entity.RoleAdministrador, "c1"))
	gone, _ := repo.GetByID("c1")
	assert.Nil(t, gone)
}
