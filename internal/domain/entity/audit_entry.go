package entity

import "time"

// AuditEntry registro inmutable de un cambio de stock. Nunca se actualiza ni se borra.
type AuditEntry struct {
	ID          string
	ProductID   string
	WarehouseID string
	ChangeQty   int64 // delta con signo
	NewQuantity int64 // cantidad resultante
	ChangedAt   time.Time
	Note        string
}
