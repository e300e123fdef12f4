package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CurrentStock  int             `json:"current_stock" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	CategoryID    string          `json:"category_id" validate:"required"`
	StoreID       string          `json:"store_id"`
	SupplierID    string          `json:"supplier_id"`
	Status        string          `json:"status"`
}

// UpdateProductRequest entrada para actualizar un producto. CurrentStock no
// aparece: el stock solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"min_stock_level"`
	CategoryID    *string          `json:"category_id"`
	StoreID       *string          `json:"store_id"`
	SupplierID    *string          `json:"supplier_id"`
	Status        *string          `json:"status"`
}

// ProductFilterRequest filtros de listado de productos.
type ProductFilterRequest struct {
	CategoryID string `query:"category_id"`
	StoreID    string `query:"store_id"`
	Status     string `query:"status"`
	Search     string `query:"search"`
	MinStock   *int   `query:"min_stock"`
	MaxStock   *int   `query:"max_stock"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	CategoryID    string          `json:"category_id"`
	StoreID       string          `json:"store_id,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Status        string          `json:"status"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
