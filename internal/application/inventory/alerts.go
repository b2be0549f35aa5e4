package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/inventory-engine/internal/domain"
	engine "github.com/jhoicas/inventory-engine/internal/domain/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// LowStockAlert registro de inventario por debajo de su mínimo con demanda reciente.
type LowStockAlert struct {
	repository.StockLevel
	CurrentStock      int64 // para bundles, unidades armables
	RecentSales       int64
	DaysUntilStockout int
}

// AlertsUseCase genera las alertas de stock bajo de una empresa.
type AlertsUseCase struct {
	companies repository.CompanyRepository
	records   repository.InventoryRecordRepository
	sales     repository.SaleRepository
	resolver  *BundleResolver
	opts      Options
	now       func() time.Time
}

// NewAlertsUseCase construye el caso de uso de alertas.
func NewAlertsUseCase(
	companyRepo repository.CompanyRepository,
	recordRepo repository.InventoryRecordRepository,
	saleRepo repository.SaleRepository,
	resolver *BundleResolver,
	opts Options,
) *AlertsUseCase {
	return &AlertsUseCase{
		companies: companyRepo,
		records:   recordRepo,
		sales:     saleRepo,
		resolver:  resolver,
		opts:      opts.normalized(),
		now:       time.Now,
	}
}

// LowStock lista los registros de la empresa con stock actual menor a su mínimo, solo para
// productos con ventas en la ventana reciente. Dos consultas agregadas (stock y ventas), sin N+1.
func (uc *AlertsUseCase) LowStock(ctx context.Context, companyID string) ([]LowStockAlert, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}

	days := uc.opts.AlertRecentDays
	from, to := engine.SalesWindow(uc.now(), days)
	totals, err := uc.sales.TotalsByCompany(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	soldByProduct := make(map[string]int64, len(totals))
	for _, t := range totals {
		soldByProduct[t.ProductID] += t.Quantity
	}

	levels, err := uc.records.ListStockLevels(ctx, companyID)
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, 0)
	for _, lvl := range levels {
		sold := soldByProduct[lvl.ProductID]
		if sold == 0 {
			continue
		}
		current := lvl.Quantity
		if lvl.IsBundle {
			current, err = uc.resolver.maxBuildable(ctx, lvl.ProductID, lvl.WarehouseID)
			if err != nil {
				return nil, err
			}
		}
		if current >= lvl.MinStock {
			continue
		}
		projected := engine.DaysToStockout(current, engine.AverageDailyRate(sold, days))
		alerts = append(alerts, LowStockAlert{
			StockLevel:        lvl,
			CurrentStock:      current,
			RecentSales:       sold,
			DaysUntilStockout: int(math.Floor(projected)),
		})
	}
	return alerts, nil
}
