package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	engine "github.com/jhoicas/inventory-engine/internal/domain/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// BundleResolver consulta la composición de bundles y calcula unidades armables por bodega.
// No muta stock; las escrituras de composición validan que el grafo siga siendo acíclico.
type BundleResolver struct {
	txRunner TxRunner
	catalog  catalog
	bundles  repository.BundleRepository
	records  repository.InventoryRecordRepository
}

// NewBundleResolver construye el resolver.
func NewBundleResolver(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	bundleRepo repository.BundleRepository,
	recordRepo repository.InventoryRecordRepository,
) *BundleResolver {
	return &BundleResolver{
		txRunner: txRunner,
		catalog:  catalog{products: productRepo, warehouses: warehouseRepo},
		bundles:  bundleRepo,
		records:  recordRepo,
	}
}

// ComponentsOf devuelve los componentes directos del bundle ordenados por ID de componente.
func (r *BundleResolver) ComponentsOf(ctx context.Context, bundleID string) ([]entity.BundleItem, error) {
	p, err := r.catalog.product(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if !p.IsBundle {
		return nil, domain.ErrNotABundle
	}
	return r.bundles.ComponentsOf(ctx, bundleID)
}

// MaxBuildable unidades del bundle que se pueden armar en la bodega con el stock actual.
func (r *BundleResolver) MaxBuildable(ctx context.Context, bundleID, warehouseID string) (int64, error) {
	if _, _, err := r.catalog.pair(ctx, bundleID, warehouseID); err != nil {
		return 0, err
	}
	return r.maxBuildable(ctx, bundleID, warehouseID)
}

func (r *BundleResolver) maxBuildable(ctx context.Context, bundleID, warehouseID string) (int64, error) {
	return engine.MaxBuildable(ctx, &warehouseSource{resolver: r, warehouseID: warehouseID}, bundleID)
}

// AddComponent agrega la arista bundle -> componente. Rechaza cantidades no positivas, padres que
// no son bundle, componentes de otra empresa y aristas que cerrarían un ciclo.
func (r *BundleResolver) AddComponent(ctx context.Context, bundleID, componentID string, quantity int64) (*entity.BundleItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad por unidad debe ser positiva", domain.ErrInvalidInput)
	}
	if bundleID == "" || componentID == "" {
		return nil, domain.ErrInvalidInput
	}
	var item *entity.BundleItem
	err := r.txRunner.Run(ctx, func(tx repository.Tx) error {
		bundle, err := tx.Products.GetByID(ctx, bundleID)
		if err != nil {
			return err
		}
		if bundle == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrUnknownEntity, bundleID)
		}
		if !bundle.IsBundle {
			return domain.ErrNotABundle
		}
		component, err := tx.Products.GetByID(ctx, componentID)
		if err != nil {
			return err
		}
		if component == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrUnknownEntity, componentID)
		}
		if component.CompanyID != bundle.CompanyID {
			return domain.ErrForbidden
		}
		// Serializa escrituras de composición de la empresa: dos aristas concurrentes podrían
		// cerrar un ciclo que ninguna ve por separado
		if err := tx.Bundles.LockGraph(ctx, bundle.CompanyID); err != nil {
			return err
		}
		cyclic, err := engine.WouldCreateCycle(ctx, tx.Bundles.ComponentsOf, bundleID, componentID)
		if err != nil {
			return err
		}
		if cyclic {
			return fmt.Errorf("%w: %s -> %s", domain.ErrCyclicBundle, bundleID, componentID)
		}
		item = &entity.BundleItem{
			ID:                 uuid.New().String(),
			BundleProductID:    bundleID,
			ComponentProductID: componentID,
			Quantity:           quantity,
		}
		return tx.Bundles.Add(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// warehouseSource adapta repositorios a engine.BuildableSource para una bodega. Cada lectura es
// independiente: no se mantienen bloqueos durante la recursión.
type warehouseSource struct {
	resolver    *BundleResolver
	warehouseID string
}

func (s *warehouseSource) IsBundle(ctx context.Context, productID string) (bool, error) {
	p, err := s.resolver.catalog.product(ctx, productID)
	if err != nil {
		return false, err
	}
	return p.IsBundle, nil
}

func (s *warehouseSource) Components(ctx context.Context, bundleID string) ([]entity.BundleItem, error) {
	return s.resolver.bundles.ComponentsOf(ctx, bundleID)
}

func (s *warehouseSource) Stock(ctx context.Context, productID string) (int64, error) {
	rec, err := s.resolver.records.Get(ctx, productID, s.warehouseID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}
