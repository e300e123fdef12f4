package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de orden en la petición. Acepta las variantes
// camelCase y snake_case que envían los clientes históricos; Normalize
// colapsa ambas en los campos canónicos.
type OrderItemRequest struct {
	ProductID    string           `json:"product_id"`
	ProductIDAlt string           `json:"productId"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	UnitPriceAlt *decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest entrada para crear una orden de compra.
type CreateOrderRequest struct {
	SupplierID              string             `json:"supplier_id"`
	SupplierIDAlt           string             `json:"supplierId"`
	Items                   []OrderItemRequest `json:"items"`
	ExpectedDeliveryDate    *time.Time         `json:"expected_delivery_date"`
	ExpectedDeliveryDateAlt *time.Time         `json:"expectedDeliveryDate"`
	Notes                   string             `json:"notes"`
}

// Normalize resuelve las variantes de nombres a los campos canónicos
// (snake_case gana si ambos vienen).
func (r *CreateOrderRequest) Normalize() {
	if r.SupplierID == "" {
		r.SupplierID = r.SupplierIDAlt
	}
	if r.ExpectedDeliveryDate == nil {
		r.ExpectedDeliveryDate = r.ExpectedDeliveryDateAlt
	}
	for i := range r.Items {
		if r.Items[i].ProductID == "" {
			r.Items[i].ProductID = r.Items[i].ProductIDAlt
		}
		if r.Items[i].UnitPrice == nil {
			r.Items[i].UnitPrice = r.Items[i].UnitPriceAlt
		}
	}
}

// UpdateOrderStatusRequest entrada para transicionar el estado de una orden.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// CancelOrderRequest entrada para cancelar una orden.
type CancelOrderRequest struct {
	Notes string `json:"notes"`
}

// OrderFilterRequest filtros de listado de órdenes.
type OrderFilterRequest struct {
	Status     string     `query:"status"`
	SupplierID string     `query:"supplier_id"`
	Search     string     `query:"search"`
	StartDate  *time.Time `query:"start_date"`
	EndDate    *time.Time `query:"end_date"`
	PageRequest
}

// OrderItemResponse línea de orden en la respuesta.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de una orden con sus líneas.
type OrderResponse struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"order_number"`
	SupplierID           string              `json:"supplier_id"`
	Status               string              `json:"status"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	CreatedBy            string              `json:"created_by"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	Items                []OrderItemResponse `json:"items"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
