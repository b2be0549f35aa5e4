package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/memory"
)

// engine agrupa los componentes del motor sobre un store en memoria.
type engine struct {
	store        *memory.Store
	ledger       *inventory.Ledger
	resolver     *inventory.BundleResolver
	availability *inventory.Availability
	threshold    *inventory.ThresholdEvaluator
	alerts       *inventory.AlertsUseCase
}

func newEngine(t *testing.T, opts inventory.Options) *engine {
	t.Helper()
	s := memory.NewStore()
	tx := s.TxRunner()
	ledger := inventory.NewLedger(tx, s.Products(), s.Warehouses(), s.InventoryRecords(), s.Audit(), opts, nil)
	resolver := inventory.NewBundleResolver(tx, s.Products(), s.Warehouses(), s.Bundles(), s.InventoryRecords())
	availability := inventory.NewAvailability(s.Products(), s.Warehouses(), s.InventoryRecords(), resolver, opts)
	return &engine{
		store:        s,
		ledger:       ledger,
		resolver:     resolver,
		availability: availability,
		threshold:    inventory.NewThresholdEvaluator(availability, s.InventoryRecords(), s.Sales(), opts),
		alerts:       inventory.NewAlertsUseCase(s.Companies(), s.InventoryRecords(), s.Sales(), resolver, opts),
	}
}

func (e *engine) company(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.store.Companies().Create(context.Background(), &entity.Company{ID: id, Name: "empresa " + id}))
}

func (e *engine) warehouse(t *testing.T, id, companyID string) {
	t.Helper()
	require.NoError(t, e.store.Warehouses().Create(context.Background(), &entity.Warehouse{ID: id, CompanyID: companyID, Name: "bodega " + id}))
}

func (e *engine) product(t *testing.T, id, companyID string, bundle bool) {
	t.Helper()
	require.NoError(t, e.store.Products().Create(context.Background(), &entity.Product{
		ID: id, CompanyID: companyID, Name: "producto " + id, SKU: "SKU-" + id, IsBundle: bundle,
	}))
}

func (e *engine) component(t *testing.T, bundleID, componentID string, qty int64) {
	t.Helper()
	_, err := e.resolver.AddComponent(context.Background(), bundleID, componentID, qty)
	require.NoError(t, err)
}

func (e *engine) stock(t *testing.T, productID, warehouseID string, qty int64) {
	t.Helper()
	_, err := e.ledger.ApplyDelta(context.Background(), productID, warehouseID, qty, "carga")
	require.NoError(t, err)
}

// basic empresa c1 con bodegas w1, w2 y productos simples A, B.
func basic(t *testing.T, opts inventory.Options) *engine {
	e := newEngine(t, opts)
	e.company(t, "c1")
	e.warehouse(t, "w1", "c1")
	e.warehouse(t, "w2", "c1")
	e.product(t, "A", "c1", false)
	e.product(t, "B", "c1", false)
	return e
}
