// seed crea el juego de datos de prueba (empresa, proveedor, dos bodegas, tres productos con un
// bundle y 30 días de ventas) a través del motor, e imprime el ID de la empresa y un token admin.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-engine/pkg/config"
	"github.com/jhoicas/inventory-engine/pkg/jwt"
	"github.com/jhoicas/inventory-engine/pkg/logger"
)

const seedNote = "seed"

type seeder struct {
	companies  *usecase.CompanyUseCase
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	ledger     *inventory.Ledger
	resolver   *inventory.BundleResolver
	sales      repository.SaleRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	tx := postgres.NewTxRunner(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	opts := inventory.DefaultOptions()

	ledger := inventory.NewLedger(tx, productRepo, warehouseRepo, recordRepo, postgres.NewAuditRepository(pool), opts, log)
	s := &seeder{
		companies:  usecase.NewCompanyUseCase(postgres.NewCompanyRepository(pool), supplierRepo),
		warehouses: usecase.NewWarehouseUseCase(warehouseRepo),
		products:   usecase.NewProductUseCase(tx, productRepo, warehouseRepo, supplierRepo, ledger),
		ledger:     ledger,
		resolver:   inventory.NewBundleResolver(tx, productRepo, warehouseRepo, postgres.NewBundleRepository(pool), recordRepo),
		sales:      postgres.NewSaleRepository(pool),
	}

	companyID, err := s.run(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	fmt.Println("Datos de prueba creados.")
	fmt.Printf("Company ID: %s\n", companyID)
	if cfg.JWT.Secret != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, uuid.NewString(), companyID, jwt.RoleAdmin, cfg.JWT.Issuer, 60*24)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("Token admin (24h): %s\n", tok)
	}
}

// run crea los datos y devuelve el ID de la empresa.
func (s *seeder) run(ctx context.Context, today time.Time) (string, error) {
	company, err := s.companies.Create(ctx, dto.CreateCompanyRequest{Name: "Test Company"})
	if err != nil {
		return "", fmt.Errorf("empresa: %w", err)
	}
	supplier, err := s.companies.CreateSupplier(ctx, dto.CreateSupplierRequest{
		Name: "Supplier Corp", ContactEmail: "orders@supplier.com", ContactPhone: "123-456-7890",
	})
	if err != nil {
		return "", fmt.Errorf("proveedor: %w", err)
	}
	mainWH, err := s.warehouses.Create(ctx, company.ID, dto.CreateWarehouseRequest{Name: "Main Warehouse", Location: "New York"})
	if err != nil {
		return "", fmt.Errorf("bodega principal: %w", err)
	}
	secondary, err := s.warehouses.Create(ctx, company.ID, dto.CreateWarehouseRequest{Name: "Secondary Warehouse", Location: "Los Angeles"})
	if err != nil {
		return "", fmt.Errorf("bodega secundaria: %w", err)
	}

	newProduct := func(name, sku, price string, bundle bool, qty, minStock int64) (string, error) {
		p, err := s.products.Create(ctx, company.ID, dto.CreateProductRequest{
			Name:            name,
			SKU:             sku,
			Price:           decimal.RequireFromString(price),
			SupplierID:      &supplier.ID,
			IsBundle:        bundle,
			WarehouseID:     mainWH.ID,
			InitialQuantity: qty,
			MinStock:        minStock,
		})
		if err != nil {
			return "", fmt.Errorf("producto %s: %w", sku, err)
		}
		return p.ID, nil
	}
	widgetA, err := newProduct("Widget A", "WID-001", "10.99", false, 5, 10)
	if err != nil {
		return "", err
	}
	widgetB, err := newProduct("Widget B", "WID-002", "20.99", true, 8, 5)
	if err != nil {
		return "", err
	}
	widgetC, err := newProduct("Widget C", "WID-003", "15.99", false, 100, 20)
	if err != nil {
		return "", err
	}

	// Widget B = 1 x Widget A + 2 x Widget C
	if _, err := s.resolver.AddComponent(ctx, widgetB, widgetA, 1); err != nil {
		return "", fmt.Errorf("componente A: %w", err)
	}
	if _, err := s.resolver.AddComponent(ctx, widgetB, widgetC, 2); err != nil {
		return "", fmt.Errorf("componente C: %w", err)
	}

	// Widget A con stock normal en la bodega secundaria
	if err := s.ledger.SetMinStock(ctx, widgetA, secondary.ID, 10); err != nil {
		return "", err
	}
	if _, err := s.ledger.ApplyDelta(ctx, widgetA, secondary.ID, 50, seedNote); err != nil {
		return "", err
	}

	// 30 días de ventas en la bodega principal: A diaria, B día por medio, C alto volumen.
	for i := 0; i < 30; i++ {
		day := today.AddDate(0, 0, -i)
		if err := s.sale(ctx, widgetA, mainWH.ID, int64(1+i%3), day); err != nil {
			return "", err
		}
		if i%2 == 0 {
			if err := s.sale(ctx, widgetB, mainWH.ID, int64(1+i%4/2), day); err != nil {
				return "", err
			}
		}
		if err := s.sale(ctx, widgetC, mainWH.ID, int64(3+i%3), day); err != nil {
			return "", err
		}
	}
	return company.ID, nil
}

func (s *seeder) sale(ctx context.Context, productID, warehouseID string, qty int64, day time.Time) error {
	wh := warehouseID
	if err := s.sales.Create(ctx, &entity.Sale{
		ID:          uuid.NewString(),
		ProductID:   productID,
		WarehouseID: &wh,
		Quantity:    qty,
		SoldAt:      day,
	}); err != nil {
		return fmt.Errorf("venta %s: %w", productID, err)
	}
	return nil
}
