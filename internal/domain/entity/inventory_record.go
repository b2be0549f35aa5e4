package entity

import "time"

// InventoryRecord stock autoritativo de un producto en una bodega (único por par producto+bodega).
// Solo el ledger de inventario lo modifica.
type InventoryRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int64 // >= 0
	MinStock    int64 // >= 0
	UpdatedAt   time.Time
}
