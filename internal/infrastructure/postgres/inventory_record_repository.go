package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

const recordColumns = `id, product_id, warehouse_id, quantity, min_stock, updated_at`

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el registro del par producto+bodega; (nil, nil) si no existe.
func (r *InventoryRecordRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	rec, err := r.scanOne(ctx, `
		SELECT `+recordColumns+`
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// LockOrCreate inserta el registro en 0 si no existe y luego bloquea la fila (SELECT FOR UPDATE).
// El INSERT concurrente del mismo par espera al primero gracias al índice único.
func (r *InventoryRecordRepo) LockOrCreate(ctx context.Context, seed *entity.InventoryRecord) (*entity.InventoryRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (`+recordColumns+`)
		VALUES ($1, $2, $3, 0, $4, $5)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		seed.ID, seed.ProductID, seed.WarehouseID, seed.MinStock, seed.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("seed inventory: %w", mapError(err))
	}
	rec, err := r.scanOne(ctx, `
		SELECT `+recordColumns+`
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`, seed.ProductID, seed.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("lock inventory: registro %s/%s no encontrado", seed.ProductID, seed.WarehouseID)
	}
	return rec, nil
}

// Save actualiza cantidad, mínimo y fecha de un registro bloqueado.
func (r *InventoryRecordRepo) Save(ctx context.Context, rec *entity.InventoryRecord) error {
	_, err := r.q.Exec(ctx, `
		UPDATE inventory SET quantity = $3, min_stock = $4, updated_at = $5
		WHERE product_id = $1 AND warehouse_id = $2`,
		rec.ProductID, rec.WarehouseID, rec.Quantity, rec.MinStock, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", mapError(err))
	}
	return nil
}

// ListByProduct devuelve los registros del producto en todas sus bodegas.
func (r *InventoryRecordRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+recordColumns+`
		FROM inventory WHERE product_id = $1 ORDER BY warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.InventoryRecord, 0)
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.MinStock, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListStockLevels devuelve los registros de la empresa con producto, bodega y proveedor (un solo JOIN).
func (r *InventoryRecordRepo) ListStockLevels(ctx context.Context, companyID string) ([]repository.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, p.sku, p.is_bundle,
		       w.id, w.name,
		       i.quantity, i.min_stock,
		       s.id::text, s.name, s.contact_email
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN warehouses w ON w.id = i.warehouse_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE w.company_id = $1
		ORDER BY p.name, w.name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]repository.StockLevel, 0)
	for rows.Next() {
		var l repository.StockLevel
		if err := rows.Scan(
			&l.ProductID, &l.ProductName, &l.SKU, &l.IsBundle,
			&l.WarehouseID, &l.WarehouseName,
			&l.Quantity, &l.MinStock,
			&l.SupplierID, &l.SupplierName, &l.SupplierEmail,
		); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *InventoryRecordRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.MinStock, &rec.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return &rec, nil
}
