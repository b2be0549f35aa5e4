package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// catalog resuelve productos y bodegas referenciados por las operaciones del motor.
type catalog struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

func (c catalog) product(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrUnknownEntity, id)
	}
	return p, nil
}

func (c catalog) warehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	w, err := c.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrUnknownEntity, id)
	}
	return w, nil
}

// pair valida que producto y bodega existan y pertenezcan a la misma empresa.
func (c catalog) pair(ctx context.Context, productID, warehouseID string) (*entity.Product, *entity.Warehouse, error) {
	p, err := c.product(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	w, err := c.warehouse(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if p.CompanyID != w.CompanyID {
		return nil, nil, fmt.Errorf("%w: producto y bodega de distintas empresas", domain.ErrInvalidInput)
	}
	return p, w, nil
}
