package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Bobo844/Api-inventor-management/internal/application/dto"
	"github.com/Bobo844/Api-inventor-management/internal/domain"
	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
	"github.com/Bobo844/Api-inventor-management/internal/domain/repository"
)

// MovementUseCase registra movimientos de stock de forma transaccional y
// expone las consultas del libro (historial, filtros, agregados).
//
// Invariante que protege: CurrentStock de un producto es siempre la suma con
// signo de sus movimientos. Cada escritura bloquea la fila del producto
// (SELECT FOR UPDATE), re-valida la no-negatividad bajo el lock y escribe
// asiento + contador en la misma transacción.
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// RegisterMovement valida, bloquea la fila del producto, aplica el delta y
// persiste asiento + stock con Commit o Rollback. Devuelve el movimiento
// creado y el stock resultante.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.ValidMovementType(in.Type) || !entity.ValidMovementReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var out dto.RegisterMovementResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto: la no-negatividad se re-valida bajo
		// el lock, no solo al entrar la petición.
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		previous := product.CurrentStock
		var newStock int
		switch in.Type {
		case entity.MovementTypeIN:
			newStock = previous + in.Quantity
		case entity.MovementTypeOUT:
			if previous < in.Quantity {
				return domain.ErrInsufficientStock
			}
			newStock = previous - in.Quantity
		}

		now := time.Now()
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			Reason:        in.Reason,
			PreviousStock: previous,
			NewStock:      newStock,
			UserID:        userID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(in.ProductID, newStock); err != nil {
			return err
		}
		out = dto.RegisterMovementResponse{
			Movement:     *toMovementResponse(mov),
			CurrentStock: newStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID obtiene un movimiento por ID.
func (uc *MovementUseCase) GetByID(id string) (*dto.MovementResponse, error) {
	mov, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(mov), nil
}

// List lista movimientos con filtros (producto, tipo, razón, actor, fechas).
func (uc *MovementUseCase) List(in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	list, err := uc.movementRepo.List(repository.MovementFilter{
		ProductID: in.ProductID,
		Type:      in.Type,
		Reason:    in.Reason,
		UserID:    in.UserID,
		From:      in.StartDate,
		To:        in.EndDate,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

// ProductHistory devuelve el historial de movimientos de un producto,
// del más reciente al más antiguo.
func (uc *MovementUseCase) ProductHistory(productID string, page dto.PageRequest) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	list, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

// Stats agrega movimientos por tipo y razón en un rango de fechas.
func (uc *MovementUseCase) Stats(from, to *time.Time) ([]dto.MovementStatResponse, error) {
	stats, err := uc.movementRepo.Stats(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.MovementStatResponse{
			Type:          s.Type,
			Reason:        s.Reason,
			TotalQuantity: s.TotalQuantity,
			Count:         s.Count,
		})
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
