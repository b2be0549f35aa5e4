package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain"
)

func TestSellableAt(t *testing.T) {
	e := basic(t, inventory.DefaultOptions())
	ctx := context.Background()
	e.product(t, "K", "c1", true)
	e.component(t, "K", "A", 2)
	e.stock(t, "A", "w1", 7)

	n, err := e.availability.SellableAt(ctx, "A", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = e.availability.SellableAt(ctx, "K", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = e.availability.SellableAt(ctx, "B", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = e.availability.SellableAt(ctx, "A", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestSellableCompanyWide_SumaPorBodega(t *testing.T) {
	opts := inventory.DefaultOptions()
	opts.AggregateWorkers = 2
	e := basic(t, opts)
	ctx := context.Background()
	e.warehouse(t, "w3", "c1")
	e.product(t, "K", "c1", true)
	e.component(t, "K", "A", 2)
	e.component(t, "K", "B", 1)
	e.stock(t, "A", "w1", 5)
	e.stock(t, "B", "w1", 10)
	e.stock(t, "A", "w2", 9)
	e.stock(t, "B", "w2", 1)
	e.stock(t, "A", "w3", 1)

	n, err := e.availability.SellableCompanyWide(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)

	// w1: min(5/2, 10) = 2; w2: min(9/2, 1) = 1; w3: 0
	n, err = e.availability.SellableCompanyWide(ctx, "K")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = e.availability.SellableCompanyWide(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}
