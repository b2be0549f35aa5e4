package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo composición de bundles (bundle_items) sobre PostgreSQL.
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

// ComponentsOf componentes directos ordenados por ID de componente.
func (r *BundleRepo) ComponentsOf(ctx context.Context, bundleID string) ([]entity.BundleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, bundle_product_id, component_product_id, quantity
		FROM bundle_items WHERE bundle_product_id = $1
		ORDER BY component_product_id`, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list bundle items: %w", mapError(err))
	}
	defer rows.Close()
	items := make([]entity.BundleItem, 0)
	for rows.Next() {
		var it entity.BundleItem
		if err := rows.Scan(&it.ID, &it.BundleProductID, &it.ComponentProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan bundle item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Add inserta una arista. Repetida = ErrDuplicate; cantidad <= 0 = ErrInvalidInput.
func (r *BundleRepo) Add(ctx context.Context, it *entity.BundleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bundle_items (id, bundle_product_id, component_product_id, quantity)
		VALUES ($1, $2, $3, $4)`,
		it.ID, it.BundleProductID, it.ComponentProductID, it.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert bundle item: %w", mapError(err))
	}
	return nil
}

// LockGraph toma un advisory lock de transacción por empresa para serializar cambios de composición.
func (r *BundleRepo) LockGraph(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('bundle_graph:' || $1::text))`, companyID); err != nil {
		return fmt.Errorf("lock bundle graph: %w", mapError(err))
	}
	return nil
}
