package orders_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bobo844/Api-inventor-management/internal/application/dto"
	"github.com/Bobo844/Api-inventor-management/internal/application/orders"
	"github.com/Bobo844/Api-inventor-management/internal/domain"
	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
	"github.com/Bobo844/Api-inventor-management/internal/domain/order"
	"github.com/Bobo844/Api-inventor-management/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }

func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return f.GetByID(id)
}

func (f *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) UpdateStock(productID string, newStock int) error {
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = newStock
	return nil
}

func (f *fakeProductRepo) List(repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) Delete(id string) error                   { delete(f.products, id); return nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }
func (f *fakeMovementRepo) List(repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) ListByProduct(string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) Stats(*time.Time, *time.Time) ([]repository.MovementStat, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (f *fakeOrderRepo) Create(o *entity.Order) error {
	f.orders[o.ID] = cloneOrder(o)
	return nil
}

func (f *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (f *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return f.GetByID(id)
}

func (f *fakeOrderRepo) UpdateStatus(id, status, notes string) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.Notes = notes
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.SupplierID != "" && o.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Search != "" && !strings.Contains(o.OrderNumber, filter.Search) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (f *fakeSupplierRepo) Create(s *entity.Supplier) error {
	cp := *s
	f.suppliers[s.ID] = &cp
	return nil
}

func (f *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSupplierRepo) Update(s *entity.Supplier) error {
	cp := *s
	f.suppliers[s.ID] = &cp
	return nil
}

func (f *fakeSupplierRepo) List(int, int) ([]*entity.Supplier, error) { return nil, nil }
func (f *fakeSupplierRepo) Delete(id string) error                    { delete(f.suppliers, id); return nil }

// fakeOrderTxRunner comparte los repos y restaura todo el estado si el
// callback falla (emula el Rollback de la transacción real).
type fakeOrderTxRunner struct {
	orderRepo   *fakeOrderRepo
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (f *fakeOrderTxRunner) RunOrder(
	_ context.Context,
	fn func(repository.OrderRepository, repository.StockMovementRepository, repository.ProductRepository) error,
) error {
	ordersSnap := make(map[string]*entity.Order, len(f.orderRepo.orders))
	for id, o := range f.orderRepo.orders {
		ordersSnap[id] = cloneOrder(o)
	}
	productsSnap := make(map[string]entity.Product, len(f.productRepo.products))
	for id, p := range f.productRepo.products {
		productsSnap[id] = *p
	}
	movCount := len(f.movRepo.movements)

	if err := fn(f.orderRepo, f.movRepo, f.productRepo); err != nil {
		f.orderRepo.orders = ordersSnap
		f.productRepo.products = make(map[string]*entity.Product, len(productsSnap))
		for id, p := range productsSnap {
			cp := p
			f.productRepo.products[id] = &cp
		}
		f.movRepo.movements = f.movRepo.movements[:movCount]
		return err
	}
	return nil
}

var _ orders.OrderTxRunner = (*fakeOrderTxRunner)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc          *orders.OrderUseCase
	orderRepo   *fakeOrderRepo
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
	supplier    *fakeSupplierRepo
}

func newFixture() *fixture {
	orderRepo := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	movRepo := &fakeMovementRepo{}
	productRepo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	supplierRepo := &fakeSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	runner := &fakeOrderTxRunner{orderRepo: orderRepo, movRepo: movRepo, productRepo: productRepo}
	return &fixture{
		uc:          orders.NewOrderUseCase(runner, orderRepo, supplierRepo),
		orderRepo:   orderRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		supplier:    supplierRepo,
	}
}

func (f *fixture) addSupplier(id string) {
	now := time.Now()
	f.supplier.suppliers[id] = &entity.Supplier{
		ID: id, Name: "Proveedor " + id, Status: entity.SupplierStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
}

func (f *fixture) addProduct(id string, stock int) {
	now := time.Now()
	f.productRepo.products[id] = &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: "Producto " + id,
		CurrentStock: stock, MinStockLevel: 5, CategoryID: "cat-1",
		Status: entity.ProductStatusActive, CreatedAt: now, UpdatedAt: now,
	}
}

func price(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func (f *fixture) createOrder(t *testing.T, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierID: "sup-1",
		Items:      items,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_OrdenNaceEnPending(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	f.addProduct("p2", 0)

	out := f.createOrder(t,
		dto.OrderItemRequest{ProductID: "p1", Quantity: 5, UnitPrice: price(10.00)},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 2, UnitPrice: price(3.25)},
	)

	assert.Equal(t, order.StatusPending, out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromFloat(56.50)),
		"5x10.00 + 2x3.25 = 56.50, got %s", out.TotalAmount)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "user-1", out.CreatedBy)

	assert.True(t, strings.HasPrefix(out.OrderNumber, "CMD-"),
		"el número de orden lleva prefijo CMD-, got %s", out.OrderNumber)
	assert.Len(t, strings.Split(out.OrderNumber, "-"), 3)
}

// Los nombres de campo en camelCase también se aceptan.
func TestCreate_AceptaCamelCase(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)

	out, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierIDAlt: "sup-1",
		Items: []dto.OrderItemRequest{
			{ProductIDAlt: "p1", Quantity: 4, UnitPriceAlt: price(2.50)},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromFloat(10.00)))
	assert.Equal(t, "sup-1", out.SupplierID)
}

func TestCreate_SinUsuario(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), "", dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_SinLineas(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	_, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierID: "sup-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProveedorInexistente(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", 0)
	_, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierID: "nope",
		Items:      []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: price(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ProveedorInactivo(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.supplier.suppliers["sup-1"].Status = entity.SupplierStatusInactive
	f.addProduct("p1", 0)

	_, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierID: "sup-1",
		Items:      []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: price(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Si un producto de la orden no existe, no se crea nada.
func TestCreate_ProductoInexistenteNoCreaNada(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)

	_, err := f.uc.Create(context.Background(), "user-1", dto.CreateOrderRequest{
		SupplierID: "sup-1",
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: price(1)},
			{ProductID: "fantasma", Quantity: 1, UnitPrice: price(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.orderRepo.orders, "la orden no debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — transiciones sin efecto de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_PendingAProcessing(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price(1)})

	out, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, out.Status)
	assert.Empty(t, f.movRepo.movements, "una transición sin entrega no toca stock")
}

func TestUpdateStatus_TransicionInvalida(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price(1)})

	// PENDING -> SHIPPED no está en la tabla.
	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusShipped,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, _ := f.orderRepo.GetByID(created.ID)
	assert.Equal(t, order.StatusPending, got.Status, "el estado no debe cambiar")
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.UpdateStatus(context.Background(), "user-1", "any", dto.UpdateOrderStatusRequest{
		Status: "LOST",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_OrdenInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.UpdateStatus(context.Background(), "user-1", "nope", dto.UpdateOrderStatusRequest{
		Status: order.StatusProcessing,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — entrega (DELIVERED suma stock)
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_EntregaSumaStockPorLinea(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 20)
	f.addProduct("p2", 0)
	created := f.createOrder(t,
		dto.OrderItemRequest{ProductID: "p1", Quantity: 3, UnitPrice: price(10)},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 7, UnitPrice: price(4)},
	)

	out, err := f.uc.UpdateStatus(context.Background(), "user-2", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, out.Status)

	p1, _ := f.productRepo.GetByID("p1")
	p2, _ := f.productRepo.GetByID("p2")
	assert.Equal(t, 23, p1.CurrentStock)
	assert.Equal(t, 7, p2.CurrentStock)

	require.Len(t, f.movRepo.movements, 2, "un asiento por línea")
	for _, m := range f.movRepo.movements {
		assert.Equal(t, entity.MovementTypeIN, m.Type)
		assert.Equal(t, entity.MovementReasonPurchase, m.Reason)
		assert.Equal(t, "user-2", m.UserID, "el asiento registra quién ejecutó la transición")
		assert.Contains(t, m.Notes, created.OrderNumber)
	}
}

// Entrega directa desde PENDING, sin pasar por PROCESSING/SHIPPED.
func TestUpdateStatus_EntregaDirectaDesdePending(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 10, UnitPrice: price(1)})

	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	require.NoError(t, err)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 10, p1.CurrentStock)
}

// Entregar dos veces no duplica stock: la segunda transición se rechaza.
func TestUpdateStatus_EntregaDobleSeRechaza(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 5, UnitPrice: price(1)})

	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 5, p1.CurrentStock, "el stock no debe duplicarse")
	assert.Len(t, f.movRepo.movements, 1)
}

// Si un producto desaparece entre la creación y la entrega, todo se revierte.
func TestUpdateStatus_EntregaConProductoBorradoRevierteTodo(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 10)
	f.addProduct("p2", 10)
	created := f.createOrder(t,
		dto.OrderItemRequest{ProductID: "p1", Quantity: 5, UnitPrice: price(1)},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 5, UnitPrice: price(1)},
	)

	require.NoError(t, f.productRepo.Delete("p2"))

	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 10, p1.CurrentStock, "la línea ya aplicada debe revertirse")
	assert.Empty(t, f.movRepo.movements)

	got, _ := f.orderRepo.GetByID(created.ID)
	assert.Equal(t, order.StatusPending, got.Status, "la orden no debe quedar entregada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel — reversa de stock sobre orden entregada
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_OrdenPendingNoTocaStock(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 8)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 2, UnitPrice: price(1)})

	out, err := f.uc.Cancel(context.Background(), "user-1", created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, out.Status)
	assert.Equal(t, "Orden cancelada por el usuario", out.Notes)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 8, p1.CurrentStock)
	assert.Empty(t, f.movRepo.movements)
}

func TestCancel_OrdenEntregadaRevierteStock(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 6, UnitPrice: price(1)})

	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	require.NoError(t, err)

	out, err := f.uc.Cancel(context.Background(), "user-1", created.ID, "proveedor retiró la entrega")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, out.Status)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 0, p1.CurrentStock, "la reversa deja el stock como antes de la entrega")

	require.Len(t, f.movRepo.movements, 2)
	reversal := f.movRepo.movements[1]
	assert.Equal(t, entity.MovementTypeOUT, reversal.Type)
	assert.Equal(t, entity.MovementReasonAdjustment, reversal.Reason)
	assert.Contains(t, reversal.Notes, created.OrderNumber)
}

// Si otra salida ya consumió el stock entregado, la reversa dejaría stock
// negativo: se rechaza y nada cambia.
func TestCancel_ReversaConStockInsuficiente(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 6, UnitPrice: price(1)})

	_, err := f.uc.UpdateStatus(context.Background(), "user-1", created.ID, dto.UpdateOrderStatusRequest{
		Status: order.StatusDelivered,
	})
	require.NoError(t, err)

	// Se venden 4 de las 6 unidades entregadas.
	require.NoError(t, f.productRepo.UpdateStock("p1", 2))

	_, err = f.uc.Cancel(context.Background(), "user-1", created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p1, _ := f.productRepo.GetByID("p1")
	assert.Equal(t, 2, p1.CurrentStock, "el stock no debe cambiar")
	got, _ := f.orderRepo.GetByID(created.ID)
	assert.Equal(t, order.StatusDelivered, got.Status, "la orden sigue entregada")
	assert.Len(t, f.movRepo.movements, 1, "no debe quedar asiento de reversa")
}

func TestCancel_OrdenCanceladaEsTerminal(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	created := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price(1)})

	_, err := f.uc.Cancel(context.Background(), "user-1", created.ID, "")
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), "user-1", created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_NoEncontrada(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetByID("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture()
	f.addSupplier("sup-1")
	f.addProduct("p1", 0)
	a := f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: price(1)})
	f.createOrder(t, dto.OrderItemRequest{ProductID: "p1", Quantity: 2, UnitPrice: price(1)})

	_, err := f.uc.Cancel(context.Background(), "user-1", a.ID, "")
	require.NoError(t, err)

	out, err := f.uc.List(dto.OrderFilterRequest{Status: order.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, a.ID, out.Items[0].ID)
}

func TestList_EstadoInvalidoEnFiltro(t *testing.T) {
	f := newFixture()
	_, err := f.uc.List(dto.OrderFilterRequest{Status: "BROKEN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
