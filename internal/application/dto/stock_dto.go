package dto

import "time"

// RegisterMovementRequest entrada para registrar un movimiento de stock manual.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required"`
	Notes     string `json:"notes"`
}

// MovementFilterRequest filtros de listado de movimientos.
type MovementFilterRequest struct {
	ProductID string     `query:"product_id"`
	Type      string     `query:"type"`
	Reason    string     `query:"reason"`
	UserID    string     `query:"user_id"`
	StartDate *time.Time `query:"start_date"`
	EndDate   *time.Time `query:"end_date"`
	PageRequest
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Reason        string    `json:"reason"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	UserID        string    `json:"user_id"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterMovementResponse movimiento creado más el stock resultante.
type RegisterMovementResponse struct {
	Movement     MovementResponse `json:"movement"`
	CurrentStock int              `json:"current_stock"`
}

// MovementStatResponse agregado de movimientos por tipo y razón.
type MovementStatResponse struct {
	Type          string `json:"type"`
	Reason        string `json:"reason"`
	TotalQuantity int    `json:"total_quantity"`
	Count         int    `json:"count"`
}
