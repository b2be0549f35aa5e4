package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// BundleRepo implementa repository.BundleRepository.
type BundleRepo struct {
	s  *Store
	tx *txState
}

func (r *BundleRepo) ComponentsOf(_ context.Context, bundleID string) ([]entity.BundleItem, error) {
	r.s.mu.RLock()
	out := append([]entity.BundleItem{}, r.s.bundles[bundleID]...)
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, it := range r.tx.items {
			if it.BundleProductID == bundleID {
				out = append(out, it)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentProductID < out[j].ComponentProductID })
	return out, nil
}

func (r *BundleRepo) Add(ctx context.Context, item *entity.BundleItem) error {
	if item.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	current, err := r.ComponentsOf(ctx, item.BundleProductID)
	if err != nil {
		return err
	}
	if hasComponent(current, item.ComponentProductID) {
		return fmt.Errorf("%w: componente %s", domain.ErrDuplicate, item.ComponentProductID)
	}
	if r.tx != nil {
		r.tx.items = append(r.tx.items, *item)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bundles[item.BundleProductID] = append(r.s.bundles[item.BundleProductID], *item)
	return nil
}

func (r *BundleRepo) LockGraph(ctx context.Context, companyID string) error {
	if r.tx == nil {
		return errNoTx
	}
	return r.tx.lockGraph(ctx, companyID)
}
