package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo historial de cambios de stock (inventory_audit). Un trigger rechaza UPDATE en la tabla.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta una entrada.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_audit (id, product_id, warehouse_id, change_qty, new_quantity, changed_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ProductID, e.WarehouseID, e.ChangeQty, e.NewQuantity, e.ChangedAt, e.Note,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", mapError(err))
	}
	return nil
}

// ListByRecord devuelve las últimas entradas del par, más recientes primero.
func (r *AuditRepo) ListByRecord(ctx context.Context, productID, warehouseID string, limit int) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, warehouse_id, change_qty, new_quantity, changed_at, note
		FROM inventory_audit
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq DESC
		LIMIT $3`, productID, warehouseID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.AuditEntry, 0)
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.ChangeQty, &e.NewQuantity, &e.ChangedAt, &e.Note); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
