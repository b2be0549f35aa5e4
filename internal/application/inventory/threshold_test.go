package inventory_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
)

func (e *engine) sale(t *testing.T, productID string, warehouseID *string, qty int64, daysAgo int) {
	t.Helper()
	require.NoError(t, e.store.Sales().Create(context.Background(), &entity.Sale{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		SoldAt:      time.Now().AddDate(0, 0, -daysAgo),
	}))
}

func TestIsBelowMinimum_TransicionesConMovimientos(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.stock(t, "A", "w1", 12)
	require.NoError(t, e.ledger.SetMinStock(ctx, "A", "w1", 10))

	below, err := e.threshold.IsBelowMinimum(ctx, "A", "w1")
	require.NoError(t, err)
	assert.False(t, below)

	_, err = e.ledger.ApplyDelta(ctx, "A", "w1", -3, "venta")
	require.NoError(t, err)
	below, err = e.threshold.IsBelowMinimum(ctx, "A", "w1")
	require.NoError(t, err)
	assert.True(t, below)

	_, err = e.ledger.ApplyDelta(ctx, "A", "w1", 1, "reposición")
	require.NoError(t, err)
	below, err = e.threshold.IsBelowMinimum(ctx, "A", "w1")
	require.NoError(t, err)
	assert.False(t, below, "igual al mínimo no está por debajo")
}

func TestIsBelowMinimum_SinRegistroUsaMinimoPorDefecto(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	below, err := e.threshold.IsBelowMinimum(context.Background(), "B", "w1")
	require.NoError(t, err)
	assert.False(t, below)

	opts := inventory.DefaultOptions()
	opts.DefaultMinStock = 3
	e = basic(t, opts)
	below, err = e.threshold.IsBelowMinimum(context.Background(), "B", "w1")
	require.NoError(t, err)
	assert.True(t, below)

	// Los registros creados por el ledger heredan el mínimo por defecto
	e.stock(t, "B", "w1", 3)
	below, err = e.threshold.IsBelowMinimum(context.Background(), "B", "w1")
	require.NoError(t, err)
	assert.False(t, below)
}

func TestProjectedDaysToStockout(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	w1 := "w1"
	e.stock(t, "A", "w1", 30)
	for d := 0; d < 5; d++ {
		e.sale(t, "A", &w1, 2, d)
	}
	// Fuera de la ventana
	e.sale(t, "A", &w1, 50, 5)

	days, err := e.threshold.ProjectedDaysToStockout(ctx, "A", "w1", 5)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, days, 1e-9)

	days, err = e.threshold.ProjectedDaysToStockout(ctx, "B", "w1", 5)
	require.NoError(t, err)
	assert.True(t, math.IsInf(days, 1))

	_, err = e.threshold.ProjectedDaysToStockout(ctx, "A", "w1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.threshold.ProjectedDaysToStockout(ctx, "A", "w1", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectedDaysToStockout_VentasSinBodega(t *testing.T) {
	ctx := context.Background()
	w1 := "w1"

	excl := basic(t, inventory.DefaultOptions())
	excl.stock(t, "A", "w1", 30)
	excl.sale(t, "A", &w1, 10, 0)
	excl.sale(t, "A", nil, 20, 1)

	days, err := excl.threshold.ProjectedDaysToStockout(ctx, "A", "w1", 10)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, days, 1e-9)

	// Empresa completa: todas las ventas
	days, err = excl.threshold.ProjectedDaysToStockout(ctx, "A", "", 10)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, days, 1e-9)

	opts := inventory.DefaultOptions()
	opts.IncludeUnscopedSales = true
	incl := basic(t, opts)
	incl.stock(t, "A", "w1", 30)
	incl.sale(t, "A", &w1, 10, 0)
	incl.sale(t, "A", nil, 20, 1)

	days, err = incl.threshold.ProjectedDaysToStockout(ctx, "A", "w1", 10)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, days, 1e-9)
}

func TestProjectedDaysToStockout_SinStockEsCero(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	w1 := "w1"
	e.sale(t, "A", &w1, 4, 0)

	days, err := e.threshold.ProjectedDaysToStockout(context.Background(), "A", "w1", 7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, days)
}

func TestThreshold_BundleUsaUnidadesConstruibles(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	w1 := "w1"
	e.product(t, "K", "c1", true)
	e.component(t, "K", "A", 2)
	e.component(t, "K", "B", 3)
	e.stock(t, "A", "w1", 10)
	e.stock(t, "B", "w1", 9)
	// Registro propio del bundle: no cuenta como stock vendible
	e.stock(t, "K", "w1", 100)
	require.NoError(t, e.ledger.SetMinStock(ctx, "K", "w1", 5))

	below, err := e.threshold.IsBelowMinimum(ctx, "K", "w1")
	require.NoError(t, err)
	assert.True(t, below, "3 construibles < mínimo 5")

	for d := 0; d < 3; d++ {
		e.sale(t, "K", &w1, 1, d)
	}
	days, err := e.threshold.ProjectedDaysToStockout(ctx, "K", "w1", 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, days, 1e-9)

	e.stock(t, "B", "w1", 9)
	below, err = e.threshold.IsBelowMinimum(ctx, "K", "w1")
	require.NoError(t, err)
	assert.False(t, below, "5 construibles no está por debajo de 5")
}
