package inventory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// Availability responde cuántas unidades vendibles hay de un producto en una bodega o en toda la empresa.
// Para productos simples es el stock crudo; para bundles, las unidades armables.
type Availability struct {
	catalog  catalog
	records  repository.InventoryRecordRepository
	resolver *BundleResolver
	workers  int
}

// NewAvailability construye el agregador.
func NewAvailability(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	recordRepo repository.InventoryRecordRepository,
	resolver *BundleResolver,
	opts Options,
) *Availability {
	return &Availability{
		catalog:  catalog{products: productRepo, warehouses: warehouseRepo},
		records:  recordRepo,
		resolver: resolver,
		workers:  opts.normalized().AggregateWorkers,
	}
}

// SellableAt unidades vendibles del producto en la bodega.
func (a *Availability) SellableAt(ctx context.Context, productID, warehouseID string) (int64, error) {
	p, _, err := a.catalog.pair(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	return a.sellable(ctx, p, warehouseID)
}

func (a *Availability) sellable(ctx context.Context, p *entity.Product, warehouseID string) (int64, error) {
	if p.IsBundle {
		return a.resolver.maxBuildable(ctx, p.ID, warehouseID)
	}
	rec, err := a.records.Get(ctx, p.ID, warehouseID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}

// SellableCompanyWide suma las unidades vendibles del producto en todas las bodegas de su empresa.
// Es una suma de reporte: las unidades no son intercambiables entre bodegas.
func (a *Availability) SellableCompanyWide(ctx context.Context, productID string) (int64, error) {
	p, err := a.catalog.product(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !p.IsBundle {
		recs, err := a.records.ListByProduct(ctx, productID)
		if err != nil {
			return 0, err
		}
		var total int64
		for _, rec := range recs {
			total += rec.Quantity
		}
		return total, nil
	}

	warehouses, err := a.catalog.warehouses.ListByCompany(ctx, p.CompanyID)
	if err != nil {
		return 0, err
	}
	units := make([]int64, len(warehouses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, w := range warehouses {
		i, w := i, w
		g.Go(func() error {
			n, err := a.sellable(gctx, p, w.ID)
			if err != nil {
				return err
			}
			units[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	var total int64
	for _, n := range units {
		total += n
	}
	return total, nil
}
