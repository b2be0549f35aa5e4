package http

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// tenantGuard verifica que productos y bodegas pertenezcan a la empresa del token.
type tenantGuard struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

func (g tenantGuard) product(ctx context.Context, companyID, productID string) error {
	if productID == "" {
		return fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	p, err := g.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if p.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (g tenantGuard) warehouse(ctx context.Context, companyID, warehouseID string) error {
	if warehouseID == "" {
		return fmt.Errorf("%w: warehouse_id requerido", domain.ErrInvalidInput)
	}
	w, err := g.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	if w.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// pair verifica producto y, si no está vacía, la bodega.
func (g tenantGuard) pair(ctx context.Context, companyID, productID, warehouseID string) error {
	if err := g.product(ctx, companyID, productID); err != nil {
		return err
	}
	if warehouseID == "" {
		return nil
	}
	return g.warehouse(ctx, companyID, warehouseID)
}
