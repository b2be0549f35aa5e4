package entity

import "time"

// Sale venta registrada de un producto. WarehouseID es nil para ventas sin bodega asignada.
// El motor solo la lee para proyectar la demanda.
type Sale struct {
	ID          string
	ProductID   string
	WarehouseID *string
	Quantity    int64 // > 0
	SoldAt      time.Time // fecha (sin hora)
}
