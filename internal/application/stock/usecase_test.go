package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bobo844/Api-inventor-management/internal/application/dto"
	"github.com/Bobo844/Api-inventor-management/internal/application/stock"
	"github.com/Bobo844/Api-inventor-management/internal/domain"
	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
	"github.com/Bobo844/Api-inventor-management/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	m := make(map[string]*entity.Product)
	for _, p := range products {
		cp := *p
		m[p.ID] = &cp
	}
	return &fakeProductRepo{products: m}
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

func (f *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

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
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(id string) error {
	delete(f.products, id)
	return nil
}

// snapshot/restore emulan el rollback transaccional del fake.
func (f *fakeProductRepo) snapshot() map[string]entity.Product {
	s := make(map[string]entity.Product, len(f.products))
	for id, p := range f.products {
		s[id] = *p
	}
	return s
}

func (f *fakeProductRepo) restore(s map[string]entity.Product) {
	f.products = make(map[string]*entity.Product, len(s))
	for id, p := range s {
		cp := p
		f.products[id] = &cp
	}
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range f.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return f.List(repository.MovementFilter{ProductID: productID})
}

func (f *fakeMovementRepo) Stats(from, to *time.Time) ([]repository.MovementStat, error) {
	agg := make(map[[2]string]*repository.MovementStat)
	var order [][2]string
	for _, m := range f.movements {
		key := [2]string{m.Type, m.Reason}
		s, ok := agg[key]
		if !ok {
			s = &repository.MovementStat{Type: m.Type, Reason: m.Reason}
			agg[key] = s
			order = append(order, key)
		}
		s.TotalQuantity += m.Quantity
		s.Count++
	}
	out := make([]repository.MovementStat, 0, len(order))
	for _, key := range order {
		out = append(out, *agg[key])
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback con los repos compartidos y, si falla,
// restaura el estado previo (emula el Rollback).
type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (f *fakeTxRunner) Run(
	_ context.Context,
	fn func(repository.StockMovementRepository, repository.ProductRepository) error,
) error {
	stocks := f.productRepo.snapshot()
	movCount := len(f.movRepo.movements)
	if err := fn(f.movRepo, f.productRepo); err != nil {
		f.productRepo.restore(stocks)
		f.movRepo.movements = f.movRepo.movements[:movCount]
		return err
	}
	return nil
}

var _ stock.TxRunner = (*fakeTxRunner)(nil)

func newStockFixture(products ...*entity.Product) (*stock.MovementUseCase, *fakeProductRepo, *fakeMovementRepo) {
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	runner := &fakeTxRunner{movRepo: movRepo, productRepo: productRepo}
	return stock.NewMovementUseCase(runner, productRepo, movRepo), productRepo, movRepo
}

func testProduct(id string, stock int) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:            id,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		CurrentStock:  stock,
		MinStockLevel: 5,
		CategoryID:    "cat-1",
		Status:        entity.ProductStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	uc, productRepo, movRepo := newStockFixture(testProduct("p1", 20))

	out, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      entity.MovementTypeIN,
		Quantity:  15,
		Reason:    entity.MovementReasonPurchase,
	})
	require.NoError(t, err)

	assert.Equal(t, 35, out.CurrentStock)
	assert.Equal(t, 20, out.Movement.PreviousStock)
	assert.Equal(t, 35, out.Movement.NewStock)
	assert.Equal(t, "user-1", out.Movement.UserID)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 35, p.CurrentStock, "el stock persistido debe coincidir")
	require.Len(t, movRepo.movements, 1, "debe quedar exactamente un asiento")
}

func TestRegisterMovement_SalidaRestaStock(t *testing.T) {
	uc, productRepo, _ := newStockFixture(testProduct("p1", 20))

	out, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      entity.MovementTypeOUT,
		Quantity:  8,
		Reason:    entity.MovementReasonSale,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, out.CurrentStock)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 12, p.CurrentStock)
}

// La salida que dejaría stock negativo se rechaza y nada cambia.
func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	uc, productRepo, movRepo := newStockFixture(testProduct("p1", 10))

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      entity.MovementTypeOUT,
		Quantity:  15,
		Reason:    entity.MovementReasonSale,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 10, p.CurrentStock, "el stock no debe cambiar tras el rechazo")
	assert.Empty(t, movRepo.movements, "no debe quedar asiento alguno")
}

// Sacar exactamente el stock disponible deja cero, no error.
func TestRegisterMovement_SalidaExacta(t *testing.T) {
	uc, _, _ := newStockFixture(testProduct("p1", 10))

	out, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      entity.MovementTypeOUT,
		Quantity:  10,
		Reason:    entity.MovementReasonAdjustment,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.CurrentStock)
}

func TestRegisterMovement_SinUsuario(t *testing.T) {
	uc, _, _ := newStockFixture(testProduct("p1", 10))

	_, err := uc.RegisterMovement(context.Background(), "", dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      entity.MovementTypeIN,
		Quantity:  1,
		Reason:    entity.MovementReasonPurchase,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	uc, _, _ := newStockFixture(testProduct("p1", 10))

	cases := []struct {
		name string
		in   dto.RegisterMovementRequest
	}{
		{"tipo desconocido", dto.RegisterMovementRequest{ProductID: "p1", Type: "TRANSFER", Quantity: 1, Reason: entity.MovementReasonSale}},
		{"razón desconocida", dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 1, Reason: "DONATION"}},
		{"cantidad cero", dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 0, Reason: entity.MovementReasonPurchase}},
		{"cantidad negativa", dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeIN, Quantity: -5, Reason: entity.MovementReasonPurchase}},
		{"sin producto", dto.RegisterMovementRequest{ProductID: "", Type: entity.MovementTypeIN, Quantity: 1, Reason: entity.MovementReasonPurchase}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterMovement(context.Background(), "user-1", tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, _, movRepo := newStockFixture()

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "no-such",
		Type:      entity.MovementTypeIN,
		Quantity:  1,
		Reason:    entity.MovementReasonPurchase,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, movRepo.movements)
}

// El asiento captura previous/new: dos movimientos seguidos encadenan.
func TestRegisterMovement_AsientosEncadenados(t *testing.T) {
	uc, _, movRepo := newStockFixture(testProduct("p1", 0))

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 30, Reason: entity.MovementReasonRestock,
	})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 12, Reason: entity.MovementReasonSale,
	})
	require.NoError(t, err)

	require.Len(t, movRepo.movements, 2)
	assert.Equal(t, 0, movRepo.movements[0].PreviousStock)
	assert.Equal(t, 30, movRepo.movements[0].NewStock)
	assert.Equal(t, 30, movRepo.movements[1].PreviousStock)
	assert.Equal(t, 18, movRepo.movements[1].NewStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_NoEncontrado(t *testing.T) {
	uc, _, _ := newStockFixture()
	_, err := uc.GetByID("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductHistory_ProductoInexistente(t *testing.T) {
	uc, _, _ := newStockFixture()
	_, err := uc.ProductHistory("nope", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStats_AgregaPorTipoYRazon(t *testing.T) {
	uc, _, _ := newStockFixture(testProduct("p1", 100))

	for i := 0; i < 3; i++ {
		_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
			ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 5, Reason: entity.MovementReasonSale,
		})
		require.NoError(t, err)
	}
	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 50, Reason: entity.MovementReasonPurchase,
	})
	require.NoError(t, err)

	stats, err := uc.Stats(nil, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byKey := make(map[string]dto.MovementStatResponse)
	for _, s := range stats {
		byKey[s.Type+"/"+s.Reason] = s
	}
	assert.Equal(t, 15, byKey["OUT/SALE"].TotalQuantity)
	assert.Equal(t, 3, byKey["OUT/SALE"].Count)
	assert.Equal(t, 50, byKey["IN/PURCHASE"].TotalQuantity)
	assert.Equal(t, 1, byKey["IN/PURCHASE"].Count)
}
