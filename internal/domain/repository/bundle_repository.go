package repository

import (
	"context"

	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

// BundleRepository puerto de la composición de bundles (aristas bundle -> componente).
type BundleRepository interface {
	// ComponentsOf devuelve los componentes directos ordenados por ID de componente.
	ComponentsOf(ctx context.Context, bundleProductID string) ([]entity.BundleItem, error)
	Add(ctx context.Context, item *entity.BundleItem) error
	// LockGraph serializa los cambios de composición de una empresa dentro de la transacción actual.
	LockGraph(ctx context.Context, companyID string) error
}
