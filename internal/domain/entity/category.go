package entity

import "time"

// Category agrupa productos. Entidad CRUD sin lógica más allá de existir.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
