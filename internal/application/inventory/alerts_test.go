package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

func TestLowStock_SoloConVentasRecientesYBajoMinimo(t *testing.T) {
	opts := inventory.DefaultOptions()
	opts.AlertRecentDays = 10
	e := basic(t, opts)
	ctx := context.Background()
	require.NoError(t, e.store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Proveedor", ContactEmail: "pedidos@proveedor.com"}))
	require.NoError(t, e.store.Products().Create(ctx, &entity.Product{ID: "C", CompanyID: "c1", Name: "producto C", SKU: "SKU-C", SupplierID: strPtr("s1")}))
	e.product(t, "K", "c1", true)
	e.component(t, "K", "B", 2)
	w1, w2 := "w1", "w2"

	// A bajo mínimo en w1 con ventas; normal en w2
	e.stock(t, "A", "w1", 5)
	require.NoError(t, e.ledger.SetMinStock(ctx, "A", "w1", 10))
	e.stock(t, "A", "w2", 50)
	require.NoError(t, e.ledger.SetMinStock(ctx, "A", "w2", 10))
	e.sale(t, "A", &w1, 20, 1)

	// C bajo mínimo pero sin ventas recientes
	e.stock(t, "C", "w1", 1)
	require.NoError(t, e.ledger.SetMinStock(ctx, "C", "w1", 10))
	e.sale(t, "C", &w1, 5, 20)

	// Bundle K: registro propio con 100 pero solo 2 armables
	e.stock(t, "K", "w1", 100)
	require.NoError(t, e.ledger.SetMinStock(ctx, "K", "w1", 5))
	e.stock(t, "B", "w1", 5)
	e.sale(t, "K", &w2, 1, 0)

	alerts, err := e.alerts.LowStock(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byProduct := map[string]inventory.LowStockAlert{}
	for _, a := range alerts {
		byProduct[a.ProductID] = a
	}
	a := byProduct["A"]
	assert.Equal(t, "w1", a.WarehouseID)
	assert.Equal(t, int64(5), a.CurrentStock)
	assert.Equal(t, int64(10), a.MinStock)
	assert.Equal(t, int64(20), a.RecentSales)
	assert.Equal(t, 2, a.DaysUntilStockout) // 5 / (20/10)

	k := byProduct["K"]
	assert.Equal(t, int64(2), k.CurrentStock)
	assert.Equal(t, 20, k.DaysUntilStockout) // 2 / (1/10)
}

func TestLowStock_ProveedorYEmpresaInexistente(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	require.NoError(t, e.store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Proveedor", ContactEmail: "pedidos@proveedor.com"}))
	require.NoError(t, e.store.Products().Create(ctx, &entity.Product{ID: "C", CompanyID: "c1", Name: "producto C", SKU: "SKU-C", SupplierID: strPtr("s1")}))
	w1 := "w1"
	require.NoError(t, e.ledger.SetMinStock(ctx, "C", "w1", 3))
	e.sale(t, "C", &w1, 3, 0)

	alerts, err := e.alerts.LowStock(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.NotNil(t, alerts[0].SupplierEmail)
	assert.Equal(t, "pedidos@proveedor.com", *alerts[0].SupplierEmail)
	assert.Equal(t, 0, alerts[0].DaysUntilStockout)

	_, err = e.alerts.LowStock(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func strPtr(s string) *string { return &s }
