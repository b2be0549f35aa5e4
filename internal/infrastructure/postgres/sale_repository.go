package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo lectura del historial de ventas (sales).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create registra una venta (seed y tests).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, product_id, warehouse_id, quantity, sold_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.ProductID, s.WarehouseID, s.Quantity, dateOnly(s.SoldAt),
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", mapError(err))
	}
	return nil
}

// SumQuantity suma las ventas del producto en el rango de fechas inclusivo.
func (r *SaleRepo) SumQuantity(ctx context.Context, f repository.SaleFilter) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM sales
		WHERE product_id = $1
		  AND sold_at BETWEEN $2 AND $3
		  AND (
		        $4::text = ''
		     OR warehouse_id = NULLIF($4::text, '')::uuid
		     OR ($5::bool AND warehouse_id IS NULL)
		  )`,
		f.ProductID, dateOnly(f.From), dateOnly(f.To), f.WarehouseID, f.IncludeUnscoped,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", mapError(err))
	}
	return total, nil
}

// TotalsByCompany totales vendidos por producto y bodega para los productos de la empresa.
func (r *SaleRepo) TotalsByCompany(ctx context.Context, companyID string, from, to time.Time) ([]repository.SaleTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.product_id, s.warehouse_id::text, SUM(s.quantity)::bigint
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE p.company_id = $1 AND s.sold_at BETWEEN $2 AND $3
		GROUP BY s.product_id, s.warehouse_id`,
		companyID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]repository.SaleTotal, 0)
	for rows.Next() {
		var t repository.SaleTotal
		if err := rows.Scan(&t.ProductID, &t.WarehouseID, &t.Quantity); err != nil {
			return nil, fmt.Errorf("scan sales total: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// dateOnly la fecha calendario de t como medianoche UTC (sold_at es DATE).
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
