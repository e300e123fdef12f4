package order

import (
	"github.com/shopspring/decimal"

	"github.com/Bobo844/Api-inventor-management/internal/domain"
)

// LineInput es una línea cruda de orden ya tipada (el adaptador HTTP resuelve
// variantes de nombres de campo antes de llegar aquí).
type LineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Line es una línea normalizada con su total calculado.
type Line struct {
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// BuildLines valida y normaliza las líneas de una orden y calcula el monto
// total. Cómputo puro: no toca almacenamiento ni valida existencia de
// productos (eso es del caso de uso, dentro de la transacción).
func BuildLines(inputs []LineInput) ([]Line, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}
	lines := make([]Line, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.ProductID == "" || in.Quantity <= 0 || in.UnitPrice.IsNegative() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		lineTotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		lines = append(lines, Line{
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}
