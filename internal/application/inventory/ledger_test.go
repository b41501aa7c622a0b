package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	byID map[string]*entity.Product
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

func (m *memProducts) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range m.byID {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetForUpdate(id string) (*entity.Product, error) {
	return m.GetByID(id)
}

func (m *memProducts) Update(p *entity.Product) error {
	if existing, ok := m.byID[p.ID]; ok {
		stock := existing.Stock
		cp := *p
		cp.Stock = stock
		m.byID[p.ID] = &cp
	}
	return nil
}

func (m *memProducts) UpdateStock(id string, stock int) error {
	if p, ok := m.byID[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (m *memProducts) List(repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range m.byID {
		cp := *p
		list = append(list, &cp)
	}
	return list, nil
}

func (m *memProducts) ListLowStock() ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range m.byID {
		if p.Status == entity.ProductStatusActive && p.NeedsRestock() {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (m *memProducts) Delete(id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memProducts) snapshot() map[string]entity.Product {
	s := make(map[string]entity.Product, len(m.byID))
	for id, p := range m.byID {
		s[id] = *p
	}
	return s
}

func (m *memProducts) restore(s map[string]entity.Product) {
	m.byID = make(map[string]*entity.Product, len(s))
	for id, p := range s {
		cp := p
		m.byID[id] = &cp
	}
}

type memMovements struct {
	items []*entity.StockMovement
}

func (m *memMovements) Create(mov *entity.StockMovement) error {
	cp := *mov
	m.items = append(m.items, &cp)
	return nil
}

func (m *memMovements) GetByID(id string) (*entity.StockMovement, error) {
	for _, mov := range m.items {
		if mov.ID == id {
			cp := *mov
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memMovements) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, mov := range m.items {
		if f.Type != "" && mov.Type != f.Type {
			continue
		}
		if f.ProductID != "" && mov.ProductID != f.ProductID {
			continue
		}
		if f.From != nil && mov.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && mov.Date.After(*f.To) {
			continue
		}
		cp := *mov
		list = append(list, &cp)
	}
	// Orden fecha descendente, como el repositorio real.
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].Date.After(list[i].Date) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list, nil
}

// memTxRunner emula la transacción: si fn falla, restaura el estado previo.
type memTxRunner struct {
	products  *memProducts
	movements *memMovements
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	productSnap := r.products.snapshot()
	movSnap := len(r.movements.items)
	if err := fn(r.movements, r.products); err != nil {
		r.products.restore(productSnap)
		r.movements.items = r.movements.items[:movSnap]
		return err
	}
	return nil
}

// chanNotifier captura los avisos de stock bajo en un canal.
type chanNotifier struct {
	ch chan *entity.Product
}

func (n *chanNotifier) NotifyLowStock(_ context.Context, p *entity.Product) error {
	n.ch <- p
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newProduct(id string, stock, minStock int) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     "Producto " + id,
		Price:    decimal.NewFromInt(1000),
		Stock:    stock,
		MinStock: minStock,
		Status:   entity.ProductStatusActive,
	}
}

func newLedger(products *memProducts, movements *memMovements, notifier inventory.LowStockNotifier) *inventory.LedgerUseCase {
	runner := &memTxRunner{products: products, movements: movements}
	return inventory.NewLedgerUseCase(runner, authz.NewRolePolicy(), notifier)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_Entrada_SumaStockYDejaSnapshots(t *testing.T) {
	products := newMemProducts(newProduct("p1", 10, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	mov, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "u1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementEntrada,
		Quantity:    7,
		Description: "compra a proveedor",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 17, mov.StockAfter)
	assert.Equal(t, entity.MovementEntrada, mov.Type)

	p, _ := products.GetByID("p1")
	assert.Equal(t, 17, p.Stock, "el stock del producto debe reflejar la entrada")
	assert.Len(t, movements.items, 1)
}

func TestLedger_Salida_RestaStock(t *testing.T) {
	products := newMemProducts(newProduct("p1", 10, 2))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	mov, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "u1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementSalida,
		Quantity:    4,
		Description: "merma",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 6, mov.StockAfter)

	p, _ := products.GetByID("p1")
	assert.Equal(t, 6, p.Stock)
}

func TestLedger_Salida_StockInsuficiente_NoDejaNada(t *testing.T) {
	products := newMemProducts(newProduct("p1", 3, 2))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "u1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementSalida,
		Quantity:    5,
		Description: "salida imposible",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := products.GetByID("p1")
	assert.Equal(t, 3, p.Stock, "el stock no debe cambiar cuando el movimiento falla")
	assert.Empty(t, movements.items, "no debe quedar movimiento registrado")
}

func TestLedger_Ajuste_FijaStockAbsoluto(t *testing.T) {
	products := newMemProducts(newProduct("p1", 42, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	mov, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "admin1",
		Role:        entity.RoleAdministrador,
		Type:        entity.MovementAjuste,
		Quantity:    8,
		Description: "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, 42, mov.StockBefore)
	assert.Equal(t, 8, mov.StockAfter)

	p, _ := products.GetByID("p1")
	assert.Equal(t, 8, p.Stock)
}

func TestLedger_Ajuste_ACero_EsValido(t *testing.T) {
	products := newMemProducts(newProduct("p1", 9, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	mov, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "admin1",
		Role:        entity.RoleAdministrador,
		Type:        entity.MovementAjuste,
		Quantity:    0,
		Description: "inventario agotado",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, mov.StockAfter)
}

func TestLedger_Ajuste_CajeroProhibido(t *testing.T) {
	products := newMemProducts(newProduct("p1", 9, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "caja1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementAjuste,
		Quantity:    3,
		Description: "intento de ajuste",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el ajuste es operación de administrador")
	assert.Empty(t, movements.items)
}

func TestLedger_CantidadInvalida(t *testing.T) {
	products := newMemProducts(newProduct("p1", 9, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	cases := []struct {
		name     string
		movType  string
		quantity int
	}{
		{"entrada cero", entity.MovementEntrada, 0},
		{"entrada negativa", entity.MovementEntrada, -3},
		{"salida cero", entity.MovementSalida, 0},
		{"ajuste negativo", entity.MovementAjuste, -1},
		{"tipo desconocido", "transferencia", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
				ProductID:   "p1",
				UserID:      "admin1",
				Role:        entity.RoleAdministrador,
				Type:        tc.movType,
				Quantity:    tc.quantity,
				Description: "x",
			})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLedger_ProductoInexistente(t *testing.T) {
	products := newMemProducts()
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "no-existe",
		UserID:      "u1",
		Role:        entity.RoleAdministrador,
		Type:        entity.MovementEntrada,
		Quantity:    1,
		Description: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_EntradaLuegoSalida_VuelveAlStockInicial(t *testing.T) {
	products := newMemProducts(newProduct("p1", 20, 5))
	movements := &memMovements{}
	ledger := newLedger(products, movements, nil)

	for _, step := range []struct {
		movType  string
		quantity int
	}{
		{entity.MovementEntrada, 15},
		{entity.MovementSalida, 15},
	} {
		_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
			ProductID:   "p1",
			UserID:      "u1",
			Role:        entity.RoleCajero,
			Type:        step.movType,
			Quantity:    step.quantity,
			Description: "ciclo",
		})
		require.NoError(t, err)
	}

	p, _ := products.GetByID("p1")
	assert.Equal(t, 20, p.Stock)

	// Los snapshots deben encadenar: after del primero == before del segundo.
	require.Len(t, movements.items, 2)
	assert.Equal(t, movements.items[0].StockAfter, movements.items[1].StockBefore)
}

func TestLedger_AvisaStockBajoTrasCommit(t *testing.T) {
	products := newMemProducts(newProduct("p1", 6, 5))
	movements := &memMovements{}
	notifier := &chanNotifier{ch: make(chan *entity.Product, 1)}
	ledger := newLedger(products, movements, notifier)

	_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "u1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementSalida,
		Quantity:    2,
		Description: "venta directa",
	})
	require.NoError(t, err)

	select {
	case p := <-notifier.ch:
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, 4, p.Stock)
	case <-time.After(time.Second):
		t.Fatal("se esperaba un aviso de stock bajo")
	}
}

func TestLedger_NoAvisaSiStockSobreUmbral(t *testing.T) {
	products := newMemProducts(newProduct("p1", 50, 5))
	movements := &memMovements{}
	notifier := &chanNotifier{ch: make(chan *entity.Product, 1)}
	ledger := newLedger(products, movements, notifier)

	_, err := ledger.Apply(context.Background(), inventory.ApplyMovementInput{
		ProductID:   "p1",
		UserID:      "u1",
		Role:        entity.RoleCajero,
		Type:        entity.MovementSalida,
		Quantity:    1,
		Description: "venta directa",
	})
	require.NoError(t, err)

	select {
	case <-notifier.ch:
		t.Fatal("no debe avisar con stock sobre el umbral")
	case <-time.After(100 * time.Millisecond):
	}
}
