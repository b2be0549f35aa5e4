package repository

import (
	"context"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// StockLevel fila de lectura para alertas: registro de inventario con datos de producto,
// bodega y proveedor (una sola consulta, sin N+1).
type StockLevel struct {
	ProductID     string
	ProductName   string
	SKU           string
	IsBundle      bool
	WarehouseID   string
	WarehouseName string
	Quantity      int64
	MinStock      int64
	SupplierID    *string
	SupplierName  *string
	SupplierEmail *string
}

// InventoryRecordRepository define el puerto para el stock por producto+bodega.
// Las escrituras solo deben hacerse con un repositorio atado a una transacción.
type InventoryRecordRepository interface {
	// Get devuelve (nil, nil) si no existe registro para el par.
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// LockOrCreate bloquea la fila del par (SELECT FOR UPDATE). Si no existe la crea a partir
	// de seed (cantidad 0) y la bloquea; la creación se revierte junto con la transacción.
	LockOrCreate(ctx context.Context, seed *entity.InventoryRecord) (*entity.InventoryRecord, error)
	// Save persiste cantidad, mínimo y fecha de actualización de un registro ya bloqueado.
	Save(ctx context.Context, record *entity.InventoryRecord) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	// ListStockLevels devuelve todos los registros de la empresa con sus datos descriptivos.
	ListStockLevels(ctx context.Context, companyID string) ([]StockLevel, error)
}
