package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-engine/internal/domain"
	engine "github.com/jhoicas/inventory-engine/internal/domain/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// ThresholdEvaluator evalúa mínimos de stock y proyecta el quiebre según la velocidad de venta.
// Para bundles el stock actual son sus unidades armables.
type ThresholdEvaluator struct {
	availability *Availability
	records      repository.InventoryRecordRepository
	sales        repository.SaleRepository
	opts         Options
	now          func() time.Time
}

// NewThresholdEvaluator construye el evaluador.
func NewThresholdEvaluator(
	availability *Availability,
	recordRepo repository.InventoryRecordRepository,
	saleRepo repository.SaleRepository,
	opts Options,
) *ThresholdEvaluator {
	return &ThresholdEvaluator{
		availability: availability,
		records:      recordRepo,
		sales:        saleRepo,
		opts:         opts.normalized(),
		now:          time.Now,
	}
}

// IsBelowMinimum true si el stock actual del par está por debajo de su mínimo.
// Sin registro, el stock es 0 y el mínimo es el configurado por defecto.
func (e *ThresholdEvaluator) IsBelowMinimum(ctx context.Context, productID, warehouseID string) (bool, error) {
	p, _, err := e.availability.catalog.pair(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	minStock := e.opts.DefaultMinStock
	rec, err := e.records.Get(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	if rec != nil {
		minStock = rec.MinStock
	}
	current, err := e.availability.sellable(ctx, p, warehouseID)
	if err != nil {
		return false, err
	}
	return current < minStock, nil
}

// ProjectedDaysToStockout días hasta agotar el stock al ritmo medio de venta de los últimos
// lookbackDays días (hoy incluido). Devuelve +Inf si no hubo ventas en la ventana.
// warehouseID vacío proyecta sobre toda la empresa.
func (e *ThresholdEvaluator) ProjectedDaysToStockout(ctx context.Context, productID, warehouseID string, lookbackDays int) (float64, error) {
	if lookbackDays <= 0 {
		return 0, fmt.Errorf("%w: lookbackDays debe ser positivo", domain.ErrInvalidInput)
	}

	var current int64
	if warehouseID == "" {
		n, err := e.availability.SellableCompanyWide(ctx, productID)
		if err != nil {
			return 0, err
		}
		current = n
	} else {
		n, err := e.availability.SellableAt(ctx, productID, warehouseID)
		if err != nil {
			return 0, err
		}
		current = n
	}

	from, to := engine.SalesWindow(e.now(), lookbackDays)
	sold, err := e.sales.SumQuantity(ctx, repository.SaleFilter{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		IncludeUnscoped: e.opts.IncludeUnscopedSales,
		From:            from,
		To:              to,
	})
	if err != nil {
		return 0, err
	}
	return engine.DaysToStockout(current, engine.AverageDailyRate(sold, lookbackDays)), nil
}
