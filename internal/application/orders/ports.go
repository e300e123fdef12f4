package orders

import (
	"context"

	"github.com/Bobo844/Api-inventor-management/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el ciclo de vida de órdenes. La creación de la
// orden con sus líneas, y las transiciones con efectos de stock, son una
// unidad: o se aplican completas o no se aplica nada.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
