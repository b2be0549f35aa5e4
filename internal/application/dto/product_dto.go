package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto, opcionalmente con su stock inicial en una bodega.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	SKU             string          `json:"sku" validate:"required,min=1,max=50"`
	Price           decimal.Decimal `json:"price" validate:"gte=0"`
	SupplierID      *string         `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	IsBundle        bool            `json:"is_bundle"`
	WarehouseID     string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	MinStock        int64           `json:"min_stock" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	SupplierID *string         `json:"supplier_id,omitempty"`
	IsBundle   bool            `json:"is_bundle"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ComponentDTO componente directo de un bundle.
type ComponentDTO struct {
	ComponentProductID string `json:"component_product_id"`
	Quantity           int64  `json:"quantity"`
}

// AddComponentRequest body para POST /api/products/:id/components.
type AddComponentRequest struct {
	ComponentProductID string `json:"component_product_id" validate:"required,uuid"`
	Quantity           int64  `json:"quantity" validate:"required,gt=0"`
}
