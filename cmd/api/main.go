package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/ports"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/inventory-engine/internal/interfaces/http"
	"github.com/jhoicas/inventory-engine/pkg/config"
	"github.com/jhoicas/inventory-engine/pkg/logger"
)

// storage puertos de persistencia según STORAGE_DRIVER.
type storage struct {
	tx         inventory.TxRunner
	companies  repository.CompanyRepository
	suppliers  repository.SupplierRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	records    repository.InventoryRecordRepository
	audit      repository.AuditRepository
	bundles    repository.BundleRepository
	sales      repository.SaleRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: el estado se pierde al reiniciar")
		s := memory.NewStore()
		return &storage{
			tx:         s.TxRunner(),
			companies:  s.Companies(),
			suppliers:  s.Suppliers(),
			warehouses: s.Warehouses(),
			products:   s.Products(),
			records:    s.InventoryRecords(),
			audit:      s.Audit(),
			bundles:    s.Bundles(),
			sales:      s.Sales(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		companies:  postgres.NewCompanyRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		products:   postgres.NewProductRepository(pool),
		records:    postgres.NewInventoryRecordRepository(pool),
		audit:      postgres.NewAuditRepository(pool),
		bundles:    postgres.NewBundleRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		close:      pool.Close,
	}, nil
}

func engineOptions(cfg config.EngineConfig) inventory.Options {
	return inventory.Options{
		DefaultMinStock:      cfg.DefaultMinStock,
		IncludeUnscopedSales: cfg.UnscopedSalesPolicy == config.UnscopedSalesInclude,
		AggregateWorkers:     cfg.AggregateWorkers,
		AlertRecentDays:      cfg.AlertRecentDays,
		TxTimeout:            cfg.TxTimeout,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	// Idempotency-Key: Redis si está configurado; si no, en proceso.
	var idem ports.IdempotencyStore = memory.NewIdempotencyStore()
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = redisstore.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idem = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	}

	opts := engineOptions(cfg.Engine)
	ledger := inventory.NewLedger(store.tx, store.products, store.warehouses, store.records, store.audit, opts, log)
	resolver := inventory.NewBundleResolver(store.tx, store.products, store.warehouses, store.bundles, store.records)
	availability := inventory.NewAvailability(store.products, store.warehouses, store.records, resolver, opts)
	threshold := inventory.NewThresholdEvaluator(availability, store.records, store.sales, opts)
	alerts := inventory.NewAlertsUseCase(store.companies, store.records, store.sales, resolver, opts)

	productUC := usecase.NewProductUseCase(store.tx, store.products, store.warehouses, store.suppliers, ledger)
	warehouseUC := usecase.NewWarehouseUseCase(store.warehouses)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if rdb != nil {
			if err := rdb.Ping(c.Context()).Err(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "redis": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:       ledger,
		Resolver:     resolver,
		Availability: availability,
		Threshold:    threshold,
		Alerts:       alerts,
		ProductUC:    productUC,
		WarehouseUC:  warehouseUC,
		Products:     store.products,
		Warehouses:   store.warehouses,
		Idempotency:  idem,
		LookbackDays: cfg.Engine.LookbackDays,
		JWTSecret:    cfg.JWT.Secret,
		Logger:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
