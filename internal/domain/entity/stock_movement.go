package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"
	MovementTypeOUT = "OUT"
)

// Razones de movimiento (conjunto extensible).
const (
	MovementReasonPurchase   = "PURCHASE"
	MovementReasonSale       = "SALE"
	MovementReasonReturn     = "RETURN"
	MovementReasonAdjustment = "ADJUSTMENT"
	MovementReasonRestock    = "RESTOCK"
)

// StockMovement es una entrada del libro de stock: registro inmutable de un
// delta aplicado al stock de un producto. Nunca se actualiza ni se borra;
// PreviousStock y NewStock se capturan en el momento de la escritura para
// auditoría.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string // IN, OUT
	Quantity      int    // siempre positivo; el signo lo da Type
	Reason        string // PURCHASE, SALE, RETURN, ADJUSTMENT, RESTOCK
	PreviousStock int
	NewStock      int
	UserID        string // actor que originó el movimiento
	Notes         string
	CreatedAt     time.Time
}

// ValidMovementType verifica que el tipo sea IN u OUT.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// ValidMovementReason verifica que la razón pertenezca al catálogo.
func ValidMovementReason(r string) bool {
	switch r {
	case MovementReasonPurchase, MovementReasonSale, MovementReasonReturn,
		MovementReasonAdjustment, MovementReasonRestock:
		return true
	}
	return false
}
