package inventory_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-engine/internal/domain/inventory"
)

func TestSalesWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	from, to := inventory.SalesWindow(now, 5)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), to)

	from, to = inventory.SalesWindow(now, 1)
	assert.Equal(t, to, from, "ventana de un día = solo hoy")
}

func TestDaysToStockout(t *testing.T) {
	// 30 en stock, 10 vendidas en 5 días => 2/día => 15 días
	avg := inventory.AverageDailyRate(10, 5)
	assert.InDelta(t, 2.0, avg, 1e-9)
	assert.InDelta(t, 15.0, inventory.DaysToStockout(30, avg), 1e-9)
}

func TestDaysToStockout_SinVentasEsInfinito(t *testing.T) {
	avg := inventory.AverageDailyRate(0, 30)
	assert.Zero(t, avg)
	assert.True(t, math.IsInf(inventory.DaysToStockout(30, avg), 1))
}

func TestDaysToStockout_StockCero(t *testing.T) {
	assert.Zero(t, inventory.DaysToStockout(0, 3))
}
