package repository

import "github.com/Bobo844/Api-inventor-management/internal/domain/entity"

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	CategoryID string
	StoreID    string
	Status     string
	Search     string // busca en name y sku
	MinStock   *int
	MaxStock   *int
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// CurrentStock solo se modifica vía UpdateStock, siempre dentro de la misma
// transacción que crea el StockMovement correspondiente.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE);
	// solo tiene sentido sobre una tx.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, newStock int) error
	List(filter ProductFilter) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
