package orders

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Bobo844/Api-inventor-management/internal/application/dto"
	"github.com/Bobo844/Api-inventor-management/internal/domain"
	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
	"github.com/Bobo844/Api-inventor-management/internal/domain/order"
	"github.com/Bobo844/Api-inventor-management/internal/domain/repository"
)

// OrderUseCase gobierna el ciclo de vida de las órdenes de compra: creación
// atómica de orden + líneas, transiciones de estado según la tabla de
// internal/domain/order y efectos de stock en las transiciones que los tienen
// (la entrega suma stock; anular una orden entregada lo revierte).
type OrderUseCase struct {
	txRunner     OrderTxRunner
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner OrderTxRunner,
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
	}
}

// newOrderNumber genera un número de orden único: prefijo + milisegundos +
// sufijo aleatorio. La unicidad dura la garantiza el constraint de la tabla.
func newOrderNumber() string {
	return fmt.Sprintf("CMD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// Create valida proveedor y líneas, calcula el total y persiste orden +
// líneas como una unidad. La orden nace en PENDING.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	in.Normalize()

	lineInputs := make([]order.LineInput, 0, len(in.Items))
	for _, item := range in.Items {
		if item.UnitPrice == nil {
			return nil, domain.ErrInvalidInput
		}
		lineInputs = append(lineInputs, order.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
		})
	}
	lines, total, err := order.BuildLines(lineInputs)
	if err != nil {
		return nil, err
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Status != entity.SupplierStatusActive {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	o := &entity.Order{
		ID:                   uuid.New().String(),
		OrderNumber:          newOrderNumber(),
		SupplierID:           in.SupplierID,
		Status:               order.StatusPending,
		TotalAmount:          total,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		Notes:                in.Notes,
		CreatedBy:            userID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, l := range lines {
		o.Items = append(o.Items, entity.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    o.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		})
	}

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Todos los productos deben existir; si alguno falta, nada se crea.
		for _, item := range o.Items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
		}
		return orderRepo.Create(o)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// UpdateStatus transiciona la orden a newStatus si la tabla lo permite y
// aplica los efectos de stock de la transición dentro de la misma transacción:
//
//   - a DELIVERED: por cada línea, asiento IN/PURCHASE y stock += cantidad.
//   - DELIVERED → CANCELLED: por cada línea, asiento OUT/ADJUSTMENT y
//     stock -= cantidad; si algún producto quedara negativo, todo se revierte.
//
// Cancelar desde estados no entregados no toca stock.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, userID, orderID string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !order.ValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}

	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Lock de la fila de la orden: transiciones concurrentes sobre la
		// misma orden se serializan aquí.
		o, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !order.CanTransition(o.Status, in.Status) {
			return domain.ErrInvalidTransition
		}

		notes := in.Notes
		if notes == "" {
			notes = o.Notes
		}
		if err := orderRepo.UpdateStatus(o.ID, in.Status, notes); err != nil {
			return err
		}

		switch {
		case in.Status == order.StatusDelivered:
			return uc.applyDelivery(movRepo, productRepo, o, userID)
		case in.Status == order.StatusCancelled && o.Status == order.StatusDelivered:
			return uc.applyReversal(movRepo, productRepo, o, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

// Cancel cancela una orden pasando por la máquina de estados: es equivalente
// a UpdateStatus(CANCELLED). Cancelar una orden entregada aplica la reversa
// de stock; cancelar desde un estado terminal falla con ErrInvalidTransition.
func (uc *OrderUseCase) Cancel(ctx context.Context, userID, orderID, notes string) (*dto.OrderResponse, error) {
	if notes == "" {
		notes = "Orden cancelada por el usuario"
	}
	return uc.UpdateStatus(ctx, userID, orderID, dto.UpdateOrderStatusRequest{
		Status: order.StatusCancelled,
		Notes:  notes,
	})
}

// applyDelivery suma a stock cada línea de la orden y deja el asiento
// IN/PURCHASE correspondiente. Si un producto desapareció a mitad del
// recorrido, el error revierte toda la transición.
func (uc *OrderUseCase) applyDelivery(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	o *entity.Order,
	userID string,
) error {
	now := time.Now()
	for _, item := range o.Items {
		product, err := productRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		previous := product.CurrentStock
		newStock := previous + item.Quantity
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeIN,
			Quantity:      item.Quantity,
			Reason:        entity.MovementReasonPurchase,
			PreviousStock: previous,
			NewStock:      newStock,
			UserID:        userID,
			Notes:         fmt.Sprintf("Stock añadido por la orden %s", o.OrderNumber),
			CreatedAt:     now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
	}
	return nil
}

// applyReversal retira de stock cada línea de una orden previamente entregada
// con asiento OUT/ADJUSTMENT. Si alguna resta dejara stock negativo, falla con
// ErrInsufficientStock y ningún producto cambia.
func (uc *OrderUseCase) applyReversal(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	o *entity.Order,
	userID string,
) error {
	now := time.Now()
	for _, item := range o.Items {
		product, err := productRepo.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		previous := product.CurrentStock
		newStock := previous - item.Quantity
		if newStock < 0 {
			return domain.ErrInsufficientStock
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeOUT,
			Quantity:      item.Quantity,
			Reason:        entity.MovementReasonAdjustment,
			PreviousStock: previous,
			NewStock:      newStock,
			UserID:        userID,
			Notes:         fmt.Sprintf("Stock retirado por anulación de la orden %s", o.OrderNumber),
			CreatedAt:     now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o), nil
}

// List lista órdenes con filtros (estado, proveedor, búsqueda, fechas).
func (uc *OrderUseCase) List(in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !order.ValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orderRepo.List(repository.OrderFilter{
		Status:     in.Status,
		SupplierID: in.SupplierID,
		Search:     in.Search,
		From:       in.StartDate,
		To:         in.EndDate,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return &dto.OrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		SupplierID:           o.SupplierID,
		Status:               o.Status,
		TotalAmount:          o.TotalAmount,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		Notes:                o.Notes,
		CreatedBy:            o.CreatedBy,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		Items:                items,
	}
}
