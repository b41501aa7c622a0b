package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/application/sales"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	byID map[string]*entity.Product
	// beforeLock se ejecuta antes de GetForUpdate: permite simular otra
	// transacción que modificó el stock entre el pre-chequeo y el bloqueo.
	beforeLock func(id string)
}

func newMemProducts(products ...*entity.Product) *memProducts {
	m := &memProducts{byID: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		m.byID[p.ID] = &cp
	}
	return m
}

func (m *memProducts) Create(p *entity.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetByBarcode(string) (*entity.Product, error) { return nil, nil }

func (m *memProducts) GetForUpdate(id string) (*entity.Product, error) {
	if m.beforeLock != nil {
		m.beforeLock(id)
	}
	return m.GetByID(id)
}

func (m *memProducts) Update(p *entity.Product) error { return nil }

func (m *memProducts) UpdateStock(id string, stock int) error {
	if p, ok := m.byID[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (m *memProducts) List(repository.ProductFilter) ([]*entity.Product, error) { return nil, nil }

func (m *memProducts) ListLowStock() ([]*entity.Product, error) { return nil, nil }

func (m *memProducts) Delete(id string) error { return nil }

type memMovements struct {
	items []*entity.StockMovement
}

func (m *memMovements) Create(mov *entity.StockMovement) error {
	cp := *mov
	m.items = append(m.items, &cp)
	return nil
}

func (m *memMovements) GetByID(string) (*entity.StockMovement, error) { return nil, nil }

func (m *memMovements) List(repository.MovementFilter) ([]*entity.StockMovement, error) {
	return m.items, nil
}

type memSales struct {
	byID    map[string]*entity.Sale
	details map[string][]*entity.SaleDetail
}

func newMemSales() *memSales {
	return &memSales{byID: map[string]*entity.Sale{}, details: map[string][]*entity.SaleDetail{}}
}

func (m *memSales) Create(s *entity.Sale) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSales) CreateDetail(d *entity.SaleDetail) error {
	cp := *d
	m.details[d.SaleID] = append(m.details[d.SaleID], &cp)
	return nil
}

func (m *memSales) GetByID(id string) (*entity.Sale, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSales) GetDetailsBySaleID(saleID string) ([]*entity.SaleDetail, error) {
	var list []*entity.SaleDetail
	for _, d := range m.details[saleID] {
		cp := *d
		list = append(list, &cp)
	}
	return list, nil
}

func (m *memSales) Update(s *entity.Sale) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSales) List(f repository.SaleFilter) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, s := range m.byID {
		if f.UserID != "" && s.UserID != f.UserID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		cp := *s
		list = append(list, &cp)
	}
	return list, nil
}

type memCustomers struct {
	byID map[string]*entity.Customer
}

func (m *memCustomers) Create(c *entity.Customer) error { return nil }

func (m *memCustomers) GetByID(id string) (*entity.Customer, error) {
	if m.byID == nil {
		return nil, nil
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomers) Update(*entity.Customer) error { return nil }

func (m *memCustomers) List(int, int) ([]*entity.Customer, error) { return nil, nil }

func (m *memCustomers) Delete(string) error { return nil }

// memTxRunner emula la transacción de venta: si fn falla, restaura productos,
// movimientos, ventas y detalles al estado previo.
type memTxRunner struct {
	products  *memProducts
	movements *memMovements
	sales     *memSales
}

func (r *memTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	productSnap := make(map[string]entity.Product, len(r.products.byID))
	for id, p := range r.products.byID {
		productSnap[id] = *p
	}
	movSnap := len(r.movements.items)
	saleSnap := make(map[string]entity.Sale, len(r.sales.byID))
	for id, s := range r.sales.byID {
		saleSnap[id] = *s
	}
	detailSnap := make(map[string]int, len(r.sales.details))
	for id, d := range r.sales.details {
		detailSnap[id] = len(d)
	}

	if err := fn(r.movements, r.products, r.sales); err != nil {
		r.products.byID = make(map[string]*entity.Product, len(productSnap))
		for id, p := range productSnap {
			cp := p
			r.products.byID[id] = &cp
		}
		r.movements.items = r.movements.items[:movSnap]
		r.sales.byID = make(map[string]*entity.Sale, len(saleSnap))
		for id, s := range saleSnap {
			cp := s
			r.sales.byID[id] = &cp
		}
		for id, d := range r.sales.details {
			if n, ok := detailSnap[id]; ok {
				r.sales.details[id] = d[:n]
			} else {
				delete(r.sales.details, id)
			}
		}
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	products  *memProducts
	movements *memMovements
	sales     *memSales
	customers *memCustomers
	uc        *sales.SaleUseCase
}

func newFixture(products ...*entity.Product) *fixture {
	f := &fixture{
		products:  newMemProducts(products...),
		movements: &memMovements{},
		sales:     newMemSales(),
		customers: &memCustomers{},
	}
	policy := authz.NewRolePolicy()
	ledger := inventory.NewLedgerUseCase(nil, policy, nil)
	runner := &memTxRunner{products: f.products, movements: f.movements, sales: f.sales}
	f.uc = sales.NewSaleUseCase(runner, ledger, f.products, f.sales, f.customers, policy)
	return f
}

func product(id string, stock int, price int64) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     "Producto " + id,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		MinStock: 2,
		Status:   entity.ProductStatusActive,
	}
}

func createSale(t *testing.T, f *fixture, lines ...dto.SaleLineRequest) *dto.SaleResponse {
	t.Helper()
	sale, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		UserID:        "caja1",
		Role:          entity.RoleCajero,
		PaymentMethod: entity.PaymentCash,
		Lines:         lines,
	})
	require.NoError(t, err)
	return sale
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYCalculaTotal(t *testing.T) {
	f := newFixture(product("p1", 10, 1500), product("p2", 8, 700))

	sale := createSale(t, f,
		dto.SaleLineRequest{ProductID: "p1", Quantity: 2},
		dto.SaleLineRequest{ProductID: "p2", Quantity: 3},
	)

	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	// total = 2*1500 + 3*700 = 5100
	assert.True(t, decimal.NewFromInt(5100).Equal(sale.Total), "total %s", sale.Total)
	require.Len(t, sale.Details, 2)

	p1, _ := f.products.GetByID("p1")
	p2, _ := f.products.GetByID("p2")
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 5, p2.Stock)

	// Una salida por línea, ligada a la venta.
	require.Len(t, f.movements.items, 2)
	for _, mov := range f.movements.items {
		assert.Equal(t, entity.MovementSalida, mov.Type)
		assert.Equal(t, "Venta #"+sale.ID, mov.Description)
		assert.Equal(t, "V-"+sale.ID, mov.DocumentNumber)
	}
}

func TestCreateSale_PrecioEsSnapshotDelCatalogo(t *testing.T) {
	f := newFixture(product("p1", 10, 2000))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	assert.True(t, decimal.NewFromInt(2000).Equal(sale.Details[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(2000).Equal(sale.Details[0].Subtotal))
}

func TestCreateSale_LineasRepetidasSumanDemanda(t *testing.T) {
	// 4 + 3 = 7 unidades sobre stock 5: debe rechazar sin abrir la venta.
	f := newFixture(product("p1", 5, 100))

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		UserID:        "caja1",
		Role:          entity.RoleCajero,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: 4},
			{ProductID: "p1", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := f.products.GetByID("p1")
	assert.Equal(t, 5, p.Stock, "el stock no debe cambiar")
	assert.Empty(t, f.sales.byID, "no debe quedar venta persistida")
	assert.Empty(t, f.movements.items)
}

func TestCreateSale_FalloEnSegundaLinea_RollbackTotal(t *testing.T) {
	// El pre-chequeo ve stock suficiente para ambas líneas, pero otra
	// transacción agota p2 antes de que la venta bloquee su fila: la segunda
	// línea falla dentro de la transacción y todo lo previo (venta, detalle
	// y salida de p1) debe deshacerse.
	f := newFixture(product("p1", 10, 100), product("p2", 5, 100))
	f.products.beforeLock = func(id string) {
		if id == "p2" {
			f.products.byID["p2"].Stock = 1
		}
	}

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		UserID:        "caja1",
		Role:          entity.RoleCajero,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni venta, ni detalles, ni movimientos, ni stock tocado.
	p1, _ := f.products.GetByID("p1")
	assert.Equal(t, 10, p1.Stock)
	assert.Empty(t, f.sales.byID)
	assert.Empty(t, f.movements.items)
}

func TestCreateSale_ProductoInactivo(t *testing.T) {
	p := product("p1", 10, 100)
	p.Status = entity.ProductStatusInactive
	f := newFixture(p)

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		UserID:        "caja1",
		Role:          entity.RoleCajero,
		PaymentMethod: entity.PaymentCash,
		Lines:         []dto.SaleLineRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_ValidacionesDeEntrada(t *testing.T) {
	f := newFixture(product("p1", 10, 100))

	cases := []struct {
		name  string
		input sales.CreateSaleInput
	}{
		{"sin líneas", sales.CreateSaleInput{
			UserID: "caja1", Role: entity.RoleCajero, PaymentMethod: entity.PaymentCash,
		}},
		{"cantidad cero", sales.CreateSaleInput{
			UserID: "caja1", Role: entity.RoleCajero, PaymentMethod: entity.PaymentCash,
			Lines: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 0}},
		}},
		{"método de pago inválido", sales.CreateSaleInput{
			UserID: "caja1", Role: entity.RoleCajero, PaymentMethod: "cheque",
			Lines: []dto.SaleLineRequest{{ProductID: "p1", Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateSale_ClienteInexistente(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	fantasma := "no-existe"

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		UserID:        "caja1",
		Role:          entity.RoleCajero,
		CustomerID:    &fantasma,
		PaymentMethod: entity.PaymentCash,
		Lines:         []dto.SaleLineRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_RestauraStockConEntradas(t *testing.T) {
	f := newFixture(product("p1", 10, 100), product("p2", 8, 200))
	sale := createSale(t, f,
		dto.SaleLineRequest{ProductID: "p1", Quantity: 4},
		dto.SaleLineRequest{ProductID: "p2", Quantity: 2},
	)

	cancelled, err := f.uc.CancelSale(context.Background(), sale.ID, "caja1", entity.RoleCajero, "cliente se arrepintió")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, "cliente se arrepintió", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, "caja1", *cancelled.CancelledBy)

	p1, _ := f.products.GetByID("p1")
	p2, _ := f.products.GetByID("p2")
	assert.Equal(t, 10, p1.Stock, "la cancelación debe devolver el stock")
	assert.Equal(t, 8, p2.Stock)

	// 2 salidas de la venta + 2 entradas compensatorias.
	require.Len(t, f.movements.items, 4)
	reversals := f.movements.items[2:]
	for _, mov := range reversals {
		assert.Equal(t, entity.MovementEntrada, mov.Type)
		assert.Equal(t, "Reversión por cancelación de Venta #"+sale.ID, mov.Description)
		assert.Equal(t, "RC-"+sale.ID, mov.DocumentNumber)
	}
}

func TestCancelSale_DobleCancelacion_Falla(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 3})

	_, err := f.uc.CancelSale(context.Background(), sale.ID, "caja1", entity.RoleCajero, "motivo")
	require.NoError(t, err)

	_, err = f.uc.CancelSale(context.Background(), sale.ID, "caja1", entity.RoleCajero, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El stock solo se restauró una vez.
	p, _ := f.products.GetByID("p1")
	assert.Equal(t, 10, p.Stock)
}

func TestCancelSale_SinMotivo_Falla(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	_, err := f.uc.CancelSale(context.Background(), sale.ID, "caja1", entity.RoleCajero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelSale_CajeroNoCancelaVentaAjena(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	_, err := f.uc.CancelSale(context.Background(), sale.ID, "caja2", entity.RoleCajero, "motivo")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancelSale_AdministradorCancelaCualquierVenta(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	cancelled, err := f.uc.CancelSale(context.Background(), sale.ID, "admin1", entity.RoleAdministrador, "devolución")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CancelSale(context.Background(), "no-existe", "caja1", entity.RoleCajero, "motivo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetSale / ListSales
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSale_CajeroSoloVeLasSuyas(t *testing.T) {
	f := newFixture(product("p1", 10, 100))
	sale := createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	_, err := f.uc.GetSale(context.Background(), sale.ID, "caja2", entity.RoleCajero)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.GetSale(context.Background(), sale.ID, "admin1", entity.RoleAdministrador)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Len(t, got.Details, 1)
}

func TestListSales_CajeroFiltradoPorUsuario(t *testing.T) {
	f := newFixture(product("p1", 100, 100))
	createSale(t, f, dto.SaleLineRequest{ProductID: "p1", Quantity: 1})

	// Venta de otro cajero insertada directo en el fake.
	otherSale := &entity.Sale{
		ID: "ajena", UserID: "caja2", Date: time.Now(),
		Total: decimal.NewFromInt(100), PaymentMethod: entity.PaymentCash,
		Status: entity.SaleStatusCompleted,
	}
	require.NoError(t, f.sales.Create(otherSale))

	mine, err := f.uc.ListSales(context.Background(), "caja1", entity.RoleCajero, repository.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "caja1", mine.Items[0].UserID)

	all, err := f.uc.ListSales(context.Background(), "admin1", entity.RoleAdministrador, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
