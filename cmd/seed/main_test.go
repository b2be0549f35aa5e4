package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/memory"
)

func TestSeed_GeneraAlertasEsperadas(t *testing.T) {
	st := memory.NewStore()
	tx := st.TxRunner()
	opts := inventory.DefaultOptions()
	ledger := inventory.NewLedger(tx, st.Products(), st.Warehouses(), st.InventoryRecords(), st.Audit(), opts, nil)
	resolver := inventory.NewBundleResolver(tx, st.Products(), st.Warehouses(), st.Bundles(), st.InventoryRecords())
	s := &seeder{
		companies:  usecase.NewCompanyUseCase(st.Companies(), st.Suppliers()),
		warehouses: usecase.NewWarehouseUseCase(st.Warehouses()),
		products:   usecase.NewProductUseCase(tx, st.Products(), st.Warehouses(), st.Suppliers(), ledger),
		ledger:     ledger,
		resolver:   resolver,
		sales:      st.Sales(),
	}

	ctx := context.Background()
	companyID, err := s.run(ctx, time.Now())
	require.NoError(t, err)

	alerts, err := inventory.NewAlertsUseCase(st.Companies(), st.InventoryRecords(), st.Sales(), resolver, opts).LowStock(ctx, companyID)
	require.NoError(t, err)

	byName := make(map[string]inventory.LowStockAlert)
	for _, a := range alerts {
		byName[a.ProductName+"@"+a.WarehouseName] = a
	}
	require.Contains(t, byName, "Widget A@Main Warehouse")
	assert.Equal(t, int64(5), byName["Widget A@Main Warehouse"].CurrentStock)
	assert.NotContains(t, byName, "Widget A@Secondary Warehouse", "50 >= 10")
	assert.NotContains(t, byName, "Widget C@Main Warehouse", "100 >= 20")

	// Widget B se arma con min(5/1, 100/2) = 5 unidades, 5 no es menor que su mínimo 5
	assert.NotContains(t, byName, "Widget B@Main Warehouse")
	assert.Equal(t, "orders@supplier.com", *byName["Widget A@Main Warehouse"].SupplierEmail)
}
