package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Product.
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
)

// Product representa un producto del inventario (SKU único por tienda).
// CurrentStock se modifica únicamente a través del motor de movimientos:
// cada cambio queda emparejado con un StockMovement en la misma transacción.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Description   string
	Price         decimal.Decimal // precio unitario, nunca negativo
	CurrentStock  int             // invariante: suma con signo de todos los movimientos
	MinStockLevel int             // umbral de reposición
	CategoryID    string
	StoreID       string
	SupplierID    string // proveedor habitual (opcional)
	Status        string // ACTIVE, INACTIVE
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el producto está en o por debajo del umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}
