package repository

import (
	"context"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// AuditRepository puerto del historial de cambios de stock. Solo permite agregar y leer.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	// ListByRecord devuelve las entradas del par producto+bodega, más recientes primero.
	ListByRecord(ctx context.Context, productID, warehouseID string, limit int) ([]*entity.AuditEntry, error)
}
