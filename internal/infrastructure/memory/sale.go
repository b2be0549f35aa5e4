package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct {
	s *Store
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[sale.ProductID]; !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrUnknownEntity, sale.ProductID)
	}
	s := *sale
	s.SoldAt = dateOf(s.SoldAt)
	r.s.sales = append(r.s.sales, s)
	return nil
}

func (r *SaleRepo) SumQuantity(_ context.Context, f repository.SaleFilter) (int64, error) {
	from, to := dateOf(f.From), dateOf(f.To)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total int64
	for _, sale := range r.s.sales {
		if sale.ProductID != f.ProductID || sale.SoldAt.Before(from) || sale.SoldAt.After(to) {
			continue
		}
		if f.WarehouseID != "" {
			switch {
			case sale.WarehouseID == nil && !f.IncludeUnscoped:
				continue
			case sale.WarehouseID != nil && *sale.WarehouseID != f.WarehouseID:
				continue
			}
		}
		total += sale.Quantity
	}
	return total, nil
}

func (r *SaleRepo) TotalsByCompany(_ context.Context, companyID string, from, to time.Time) ([]repository.SaleTotal, error) {
	from, to = dateOf(from), dateOf(to)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct{ product, warehouse string }
	sums := make(map[key]int64)
	order := make([]key, 0)
	for _, sale := range r.s.sales {
		p, ok := r.s.products[sale.ProductID]
		if !ok || p.CompanyID != companyID || sale.SoldAt.Before(from) || sale.SoldAt.After(to) {
			continue
		}
		k := key{product: sale.ProductID}
		if sale.WarehouseID != nil {
			k.warehouse = *sale.WarehouseID
		}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += sale.Quantity
	}
	out := make([]repository.SaleTotal, 0, len(order))
	for _, k := range order {
		t := repository.SaleTotal{ProductID: k.product, Quantity: sums[k]}
		if k.warehouse != "" {
			w := k.warehouse
			t.WarehouseID = &w
		}
		out = append(out, t)
	}
	return out, nil
}

// dateOf trunca a la fecha (sold_at es DATE en el esquema).
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
