package entity

import "time"

// Estados válidos para Supplier.
const (
	SupplierStatusActive   = "ACTIVE"
	SupplierStatusInactive = "INACTIVE"
)

// Supplier representa un proveedor. Solo los proveedores ACTIVE pueden
// recibir órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Status    string // ACTIVE, INACTIVE
	CreatedAt time.Time
	UpdatedAt time.Time
}
