package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain"
)

func TestApplyDelta_SumaDeltasYRechazaNegativos(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()

	deltas := []int64{10, -3, -8, 5, -12, 1}
	var expected int64
	for _, d := range deltas {
		got, err := e.ledger.ApplyDelta(ctx, "A", "w1", d, "mov")
		if expected+d < 0 {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		require.NoError(t, err)
		expected += d
		assert.Equal(t, expected, got)
	}

	qty, err := e.ledger.CurrentQuantity(ctx, "A", "w1")
	require.NoError(t, err)
	assert.Equal(t, expected, qty)
	assert.GreaterOrEqual(t, qty, int64(0))
}

func TestApplyDelta_UnaEntradaDeAuditoriaPorMovimiento(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()

	_, err := e.ledger.ApplyDelta(ctx, "A", "w1", 10, "reposición")
	require.NoError(t, err)
	_, err = e.ledger.ApplyDelta(ctx, "A", "w1", -4, "venta")
	require.NoError(t, err)
	_, err = e.ledger.ApplyDelta(ctx, "A", "w1", -100, "venta grande")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	hist, err := e.ledger.History(ctx, "A", "w1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, int64(-4), hist[0].ChangeQty)
	assert.Equal(t, int64(6), hist[0].NewQuantity)
	assert.Equal(t, "venta", hist[0].Note)
	assert.Equal(t, int64(10), hist[1].ChangeQty)
	assert.Equal(t, int64(10), hist[1].NewQuantity)

	// Las entradas previas no cambian con movimientos posteriores
	first := *hist[1]
	_, err = e.ledger.ApplyDelta(ctx, "A", "w1", 1, "ajuste")
	require.NoError(t, err)
	hist, err = e.ledger.History(ctx, "A", "w1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, first, *hist[2])
}

func TestApplyDelta_EntradasInvalidas(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	e.company(t, "c2")
	e.warehouse(t, "x1", "c2")
	ctx := context.Background()

	_, err := e.ledger.ApplyDelta(ctx, "A", "w1", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.ApplyDelta(ctx, "nope", "w1", 1, "")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = e.ledger.ApplyDelta(ctx, "A", "nope", 1, "")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = e.ledger.ApplyDelta(ctx, "A", "x1", 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrentQuantity_SinRegistroEsCero(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	qty, err := e.ledger.CurrentQuantity(context.Background(), "B", "w2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)

	_, err = e.ledger.CurrentQuantity(context.Background(), "nope", "w2")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestApplyDelta_ConcurrenteSinActualizacionesPerdidas(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.stock(t, "A", "w1", 100)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ledger.ApplyDelta(ctx, "A", "w1", -3, "venta")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected++
				return
			}
			ok++
		}()
	}
	wg.Wait()

	// 100 / 3 = 33 ventas caben; el resto se rechaza
	assert.Equal(t, 33, ok)
	assert.Equal(t, workers-33, rejected)
	qty, err := e.ledger.CurrentQuantity(ctx, "A", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty)
}

func TestApplyBundleSale_DescuentaComponentes(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "K", "c1", true)
	e.component(t, "K", "A", 2)
	e.component(t, "K", "B", 3)
	e.stock(t, "A", "w1", 10)
	e.stock(t, "B", "w1", 9)

	got, err := e.ledger.ApplyBundleSale(ctx, "K", "w1", 2, "venta kit")
	require.NoError(t, err)
	assert.Equal(t, []inventory.ComponentDeduction{
		{ProductID: "A", Deducted: 4, NewQuantity: 6},
		{ProductID: "B", Deducted: 6, NewQuantity: 3},
	}, got)

	hist, err := e.ledger.History(ctx, "B", "w1", 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, int64(-6), hist[0].ChangeQty)
	assert.Equal(t, "venta kit", hist[0].Note)
}

func TestApplyBundleSale_AtomicaSiFaltaUnComponente(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "K", "c1", true)
	e.component(t, "K", "A", 2)
	e.component(t, "K", "B", 3)
	e.stock(t, "A", "w1", 10)
	e.stock(t, "B", "w1", 9)

	_, err := e.ledger.ApplyBundleSale(ctx, "K", "w1", 4, "venta kit")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	a, err := e.ledger.CurrentQuantity(ctx, "A", "w1")
	require.NoError(t, err)
	b, err := e.ledger.CurrentQuantity(ctx, "B", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), a)
	assert.Equal(t, int64(9), b)

	hist, err := e.ledger.History(ctx, "A", "w1", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestApplyBundleSale_ExpandeBundlesAnidados(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "SUB", "c1", true)
	e.product(t, "K", "c1", true)
	e.component(t, "SUB", "A", 1)
	e.component(t, "K", "SUB", 2)
	e.component(t, "K", "B", 1)
	e.stock(t, "A", "w1", 5)
	e.stock(t, "B", "w1", 5)
	e.stock(t, "SUB", "w1", 7)

	got, err := e.ledger.ApplyBundleSale(ctx, "K", "w1", 2, "")
	require.NoError(t, err)
	assert.Equal(t, []inventory.ComponentDeduction{
		{ProductID: "A", Deducted: 4, NewQuantity: 1},
		{ProductID: "B", Deducted: 2, NewQuantity: 3},
	}, got)

	// El registro propio del sub-bundle no se toca
	qty, err := e.ledger.CurrentQuantity(ctx, "SUB", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), qty)
}

func TestApplyBundleSale_Errores(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "EMPTY", "c1", true)

	_, err := e.ledger.ApplyBundleSale(ctx, "A", "w1", 1, "")
	assert.ErrorIs(t, err, domain.ErrNotABundle)

	_, err = e.ledger.ApplyBundleSale(ctx, "EMPTY", "w1", 1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.ApplyBundleSale(ctx, "EMPTY", "w1", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyBundleSale_ConcurrentesNoSeBloquean(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "K1", "c1", true)
	e.product(t, "K2", "c1", true)
	// Mismos componentes en distinto orden de alta
	e.component(t, "K1", "A", 1)
	e.component(t, "K1", "B", 1)
	e.component(t, "K2", "B", 1)
	e.component(t, "K2", "A", 1)
	e.stock(t, "A", "w1", 40)
	e.stock(t, "B", "w1", 40)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		bundle := "K1"
		if i%2 == 1 {
			bundle = "K2"
		}
		go func() {
			defer wg.Done()
			_, err := e.ledger.ApplyBundleSale(ctx, bundle, "w1", 1, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	a, err := e.ledger.CurrentQuantity(ctx, "A", "w1")
	require.NoError(t, err)
	b, err := e.ledger.CurrentQuantity(ctx, "B", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), a)
	assert.Equal(t, int64(20), b)
}

func TestSetMinStock_NoGeneraAuditoria(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()

	require.NoError(t, e.ledger.SetMinStock(ctx, "A", "w1", 5))
	assert.ErrorIs(t, e.ledger.SetMinStock(ctx, "A", "w1", -1), domain.ErrInvalidInput)

	qty, err := e.ledger.CurrentQuantity(ctx, "A", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
	hist, err := e.ledger.History(ctx, "A", "w1", 0)
	require.NoError(t, err)
	assert.Empty(t, hist)

	below, err := e.threshold.IsBelowMinimum(ctx, "A", "w1")
	require.NoError(t, err)
	assert.True(t, below)
}
