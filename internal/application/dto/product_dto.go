package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. ExpiryDate en formato YYYY-MM-DD.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	SKU             string          `json:"sku" validate:"required,min=1,max=50"`
	Barcode         string          `json:"barcode" validate:"omitempty,numeric,min=12,max=13"`
	Price           decimal.Decimal `json:"price"`
	ExpiryDate      string          `json:"expiry_date"`
	CategoryID      string          `json:"category_id" validate:"required"`
	SupplierID      string          `json:"supplier_id" validate:"required"`
	InitialQuantity int             `json:"initial_quantity" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto. La cantidad no es editable:
// Quantity existe solo para rechazar peticiones que la traigan.
type UpdateProductRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=100"`
	SKU        *string          `json:"sku" validate:"omitempty,min=1,max=50"`
	Price      *decimal.Decimal `json:"price"`
	ExpiryDate *string          `json:"expiry_date"` // "" borra el vencimiento
	CategoryID *string          `json:"category_id"`
	SupplierID *string          `json:"supplier_id"`
	Quantity   *int             `json:"quantity,omitempty" swaggerignore:"true"`
}

// ProductRef referencia corta a categoría o proveedor.
type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse salida de un producto con los indicadores calculados.
type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Barcode          *string         `json:"barcode"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int             `json:"quantity"`
	ExpiryDate       *string         `json:"expiry_date"`
	DaysLeftToExpire *int            `json:"days_left_to_expire"`
	IsExpired        bool            `json:"is_expired"`
	IsLowStock       bool            `json:"is_low_stock"`
	CategoryID       string          `json:"category_id"`
	SupplierID       string          `json:"supplier_id"`
	Category         *ProductRef     `json:"category,omitempty"`
	Supplier         *ProductRef     `json:"supplier,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
	Search     string `query:"search"`
	LowStock   bool   `query:"low_stock"`
	Expiring   bool   `query:"expiring"`
	PageRequest
}
