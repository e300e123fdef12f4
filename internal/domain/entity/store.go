package entity

import "time"

// Store representa una tienda o sucursal a la que pertenecen productos.
type Store struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
