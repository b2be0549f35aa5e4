package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// CompanyRepo implementa repository.CompanyRepository.
type CompanyRepo struct {
	s *Store
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct {
	s *Store
}

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sup.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sup, nil
}

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct {
	s *Store
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[w.CompanyID]; !ok {
		return fmt.Errorf("%w: empresa %s", domain.ErrUnknownEntity, w.CompanyID)
	}
	for _, other := range r.s.warehouses {
		if other.ID == w.ID || (other.CompanyID == w.CompanyID && other.Name == w.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Warehouse, 0)
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			w := w
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ProductRepo implementa repository.ProductRepository. Con tx, las altas quedan en staging
// hasta el commit y las lecturas ven también lo escrito en la transacción.
type ProductRepo struct {
	s  *Store
	tx *txState
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if r.tx != nil {
		r.s.mu.RLock()
		_, taken := r.s.skus[p.SKU]
		_, companyOK := r.s.companies[p.CompanyID]
		r.s.mu.RUnlock()
		for _, staged := range r.tx.prods {
			if staged.SKU == p.SKU {
				taken = true
			}
		}
		if taken {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		if !companyOK {
			return fmt.Errorf("%w: empresa %s", domain.ErrUnknownEntity, p.CompanyID)
		}
		r.tx.prods = append(r.tx.prods, *p)
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.skus[p.SKU]; ok {
		return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
	}
	if _, ok := r.s.companies[p.CompanyID]; !ok {
		return fmt.Errorf("%w: empresa %s", domain.ErrUnknownEntity, p.CompanyID)
	}
	r.s.products[p.ID] = *p
	r.s.skus[p.SKU] = p.ID
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if r.tx != nil {
		if p, ok := r.tx.stagedProduct(id); ok {
			return &p, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	if r.tx != nil {
		for _, p := range r.tx.prods {
			if p.SKU == sku {
				p := p
				return &p, nil
			}
		}
	}
	r.s.mu.RLock()
	id, ok := r.s.skus[sku]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			p := p
			all = append(all, &p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
