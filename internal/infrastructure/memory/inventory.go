package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// InventoryRecordRepo implementa repository.InventoryRecordRepository.
type InventoryRecordRepo struct {
	s  *Store
	tx *txState
}

func (r *InventoryRecordRepo) Get(_ context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	key := pairKey{productID, warehouseID}
	if r.tx != nil {
		if rec, ok := r.tx.records[key]; ok {
			return &rec, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *InventoryRecordRepo) LockOrCreate(ctx context.Context, seed *entity.InventoryRecord) (*entity.InventoryRecord, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	key := pairKey{seed.ProductID, seed.WarehouseID}
	if err := r.tx.lockRow(ctx, key); err != nil {
		return nil, err
	}
	if rec, ok := r.tx.records[key]; ok {
		return &rec, nil
	}

	r.s.mu.RLock()
	rec, ok := r.s.records[key]
	_, productOK := r.s.products[seed.ProductID]
	_, warehouseOK := r.s.warehouses[seed.WarehouseID]
	r.s.mu.RUnlock()
	if ok {
		return &rec, nil
	}
	if !productOK {
		_, productOK = r.tx.stagedProduct(seed.ProductID)
	}
	if !productOK || !warehouseOK {
		return nil, fmt.Errorf("%w: producto %s / bodega %s", domain.ErrUnknownEntity, seed.ProductID, seed.WarehouseID)
	}
	rec = *seed
	rec.Quantity = 0
	r.tx.records[key] = rec
	return &rec, nil
}

func (r *InventoryRecordRepo) Save(_ context.Context, rec *entity.InventoryRecord) error {
	if r.tx == nil {
		return errNoTx
	}
	key := pairKey{rec.ProductID, rec.WarehouseID}
	if _, ok := r.tx.held[key]; !ok {
		return fmt.Errorf("memory: registro %s/%s no bloqueado", rec.ProductID, rec.WarehouseID)
	}
	if rec.Quantity < 0 {
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInsufficientStock)
	}
	if rec.MinStock < 0 {
		return domain.ErrInvalidInput
	}
	r.tx.records[key] = *rec
	return nil
}

func (r *InventoryRecordRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.InventoryRecord, 0)
	for key, rec := range r.s.records {
		if key.productID == productID {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r *InventoryRecordRepo) ListStockLevels(_ context.Context, companyID string) ([]repository.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.StockLevel, 0)
	for key, rec := range r.s.records {
		w, ok := r.s.warehouses[key.warehouseID]
		if !ok || w.CompanyID != companyID {
			continue
		}
		p := r.s.products[key.productID]
		lvl := repository.StockLevel{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			IsBundle:      p.IsBundle,
			WarehouseID:   w.ID,
			WarehouseName: w.Name,
			Quantity:      rec.Quantity,
			MinStock:      rec.MinStock,
		}
		if p.SupplierID != nil {
			if sup, ok := r.s.suppliers[*p.SupplierID]; ok {
				id, name, email := sup.ID, sup.Name, sup.ContactEmail
				lvl.SupplierID, lvl.SupplierName, lvl.SupplierEmail = &id, &name, &email
			}
		}
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].WarehouseName < out[j].WarehouseName
	})
	return out, nil
}

// AuditRepo implementa repository.AuditRepository. Solo agrega; nunca modifica entradas.
type AuditRepo struct {
	s  *Store
	tx *txState
}

func (r *AuditRepo) Append(_ context.Context, entry *entity.AuditEntry) error {
	if r.tx != nil {
		r.tx.audit = append(r.tx.audit, *entry)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

func (r *AuditRepo) ListByRecord(_ context.Context, productID, warehouseID string, limit int) ([]*entity.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.AuditEntry, 0)
	for i := len(r.s.audit) - 1; i >= 0; i-- {
		e := r.s.audit[i]
		if e.ProductID != productID || e.WarehouseID != warehouseID {
			continue
		}
		out = append(out, &e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
