package dto

import "time"

// ApplyDeltaRequest body para POST /api/inventory/deltas (venta simple, reposición o ajuste).
type ApplyDeltaRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Delta       int64  `json:"delta" validate:"required"`
	Note        string `json:"note" validate:"max=500"`
}

// DeltaResponse resultado de un movimiento aplicado.
type DeltaResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	NewQuantity int64  `json:"new_quantity"`
}

// BundleSaleRequest body para POST /api/inventory/bundle-sales.
type BundleSaleRequest struct {
	BundleProductID string `json:"bundle_product_id" validate:"required,uuid"`
	WarehouseID     string `json:"warehouse_id" validate:"required,uuid"`
	Units           int64  `json:"units" validate:"required,gt=0"`
	Note            string `json:"note" validate:"max=500"`
}

// ComponentDeductionDTO descuento aplicado a un componente en una venta de bundle.
type ComponentDeductionDTO struct {
	ProductID   string `json:"product_id"`
	Deducted    int64  `json:"deducted"`
	NewQuantity int64  `json:"new_quantity"`
}

// BundleSaleResponse resultado de una venta de bundle.
type BundleSaleResponse struct {
	BundleProductID string                  `json:"bundle_product_id"`
	WarehouseID     string                  `json:"warehouse_id"`
	Units           int64                   `json:"units"`
	Components      []ComponentDeductionDTO `json:"components"`
}

// SetMinStockRequest body para PUT /api/inventory/min-stock.
type SetMinStockRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	MinStock    int64  `json:"min_stock" validate:"min=0"`
}

// AuditEntryDTO entrada del historial de stock.
type AuditEntryDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	ChangeQty   int64     `json:"change_qty"`
	NewQuantity int64     `json:"new_quantity"`
	ChangedAt   time.Time `json:"changed_at"`
	Note        string    `json:"note"`
}

// QuantityResponse cantidad (cruda o vendible) de un producto.
type QuantityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id,omitempty"` // vacío = toda la empresa
	Quantity    int64  `json:"quantity"`
}

// ThresholdResponse resultado de la evaluación de mínimo.
type ThresholdResponse struct {
	ProductID    string `json:"product_id"`
	WarehouseID  string `json:"warehouse_id"`
	BelowMinimum bool   `json:"below_minimum"`
}

// ProjectionResponse días estimados hasta el quiebre. DaysToStockout es null cuando no hay demanda
// (Never = true), ya que JSON no representa infinito.
type ProjectionResponse struct {
	ProductID      string   `json:"product_id"`
	WarehouseID    string   `json:"warehouse_id,omitempty"`
	LookbackDays   int      `json:"lookback_days"`
	DaysToStockout *float64 `json:"days_to_stockout"`
	Never          bool     `json:"never"`
}

// SupplierDTO contacto del proveedor en una alerta.
type SupplierDTO struct {
	ID           *string `json:"id"`
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
}

// LowStockAlertDTO alerta de stock bajo para un producto en una bodega.
type LowStockAlertDTO struct {
	ProductID         string      `json:"product_id"`
	ProductName       string      `json:"product_name"`
	SKU               string      `json:"sku"`
	WarehouseID       string      `json:"warehouse_id"`
	WarehouseName     string      `json:"warehouse_name"`
	CurrentStock      int64       `json:"current_stock"`
	Threshold         int64       `json:"threshold"`
	RecentSales       int64       `json:"recent_sales"`
	DaysUntilStockout int         `json:"days_until_stockout"`
	Supplier          SupplierDTO `json:"supplier"`
}

// LowStockAlertsResponse listado de alertas de una empresa.
type LowStockAlertsResponse struct {
	Alerts      []LowStockAlertDTO `json:"alerts"`
	TotalAlerts int                `json:"total_alerts"`
}
