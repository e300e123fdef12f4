package repository

import (
	"time"

	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	Reason    string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementStat agregado de movimientos por tipo y razón.
type MovementStat struct {
	Type          string
	Reason        string
	TotalQuantity int
	Count         int
}

// StockMovementRepository define el puerto del libro de stock. El libro es
// append-only: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	Stats(from, to *time.Time) ([]MovementStat, error)
}
