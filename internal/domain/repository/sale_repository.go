package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// SaleFilter acota la suma de ventas de un producto.
// WarehouseID vacío = todas las ventas del producto. Con bodega, IncludeUnscoped suma además
// las ventas sin bodega asignada.
type SaleFilter struct {
	ProductID       string
	WarehouseID     string
	IncludeUnscoped bool
	From, To        time.Time // fechas inclusivas
}

// SaleTotal total vendido de un producto en una bodega (WarehouseID nil = ventas sin bodega).
type SaleTotal struct {
	ProductID   string
	WarehouseID *string
	Quantity    int64
}

// SaleRepository puerto de lectura del historial de ventas. Create existe para el seed.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	SumQuantity(ctx context.Context, filter SaleFilter) (int64, error)
	TotalsByCompany(ctx context.Context, companyID string, from, to time.Time) ([]SaleTotal, error)
}
