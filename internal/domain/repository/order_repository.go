package repository

import (
	"time"

	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
)

// OrderFilter criterios de listado de órdenes.
type OrderFilter struct {
	Status     string
	SupplierID string
	Search     string // busca en order_number
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order + OrderItems.
// Create persiste la orden y todas sus líneas como una unidad; los items no
// se modifican después de creados.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate obtiene la orden (con items) bloqueando la fila de la
	// orden; serializa transiciones concurrentes sobre la misma orden.
	GetForUpdate(id string) (*entity.Order, error)
	UpdateStatus(id, status, notes string) error
	List(filter OrderFilter) ([]*entity.Order, error)
}
