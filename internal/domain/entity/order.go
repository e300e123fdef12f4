package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order representa una orden de compra a un proveedor. TotalAmount es derivado
// de los items (nunca se fija de forma independiente). El ciclo de vida se
// gobierna en internal/domain/order; aquí solo viven los datos.
type Order struct {
	ID                   string
	OrderNumber          string // único, generado al crear
	SupplierID           string
	Status               string // ver internal/domain/order
	TotalAmount          decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Notes                string
	CreatedBy            string // actor que creó la orden
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Items                []OrderItem
}

// OrderItem es una línea de la orden. Se crea junto con la orden y no se
// modifica después (no hay recepción parcial).
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // Quantity × UnitPrice
}
