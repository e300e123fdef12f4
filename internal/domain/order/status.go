package order

// Estados del ciclo de vida de una orden de compra.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

// transitions es la tabla de sucesores válidos por estado. CANCELLED es
// terminal; DELIVERED solo admite CANCELLED (anular una orden entregada
// revierte el stock que sumó). Una transición al mismo estado también se
// rechaza: no aparece en la tabla.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusDelivered},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusCancelled},
	StatusCancelled:  {},
}

// ValidStatus verifica que el estado pertenezca al vocabulario.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition indica si el cambio from -> to está en la tabla.
// Función pura sobre valores planos: el almacenamiento no participa.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStates devuelve los sucesores válidos de un estado (copia defensiva).
func NextStates(from string) []string {
	next := transitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func IsTerminal(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
