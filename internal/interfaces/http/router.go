package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/ports"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
	"github.com/jhoicas/inventory-engine/pkg/jwt"
	"github.com/jhoicas/inventory-engine/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *inventory.Ledger
	Resolver     *inventory.BundleResolver
	Availability *inventory.Availability
	Threshold    *inventory.ThresholdEvaluator
	Alerts       *inventory.AlertsUseCase
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase

	// Lecturas para verificar que producto y bodega sean de la empresa del token.
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository

	// Idempotency es opcional; nil deshabilita el header Idempotency-Key.
	Idempotency  ports.IdempotencyStore
	LookbackDays int
	JWTSecret    string
	Logger       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Logger))

	guard := tenantGuard{products: deps.Products, warehouses: deps.Warehouses}
	idem := Idempotency(deps.Idempotency, deps.Logger)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleSeller)

	// Inventario
	inv := protected.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Threshold, guard, deps.LookbackDays)
	inv.Post("/deltas", idem, inventoryHandler.ApplyDelta)
	inv.Post("/bundle-sales", RequireRole(jwt.RoleAdmin, jwt.RoleSeller), idem, inventoryHandler.BundleSale)
	inv.Get("/quantity", inventoryHandler.Quantity)
	inv.Get("/below-minimum", inventoryHandler.BelowMinimum)
	inv.Get("/projection", inventoryHandler.Projection)
	inv.Get("/audit", inventoryHandler.Audit)
	inv.Put("/min-stock", adminOnly, idem, inventoryHandler.SetMinStock)

	// Productos y composición de bundles
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC, deps.Resolver, deps.Availability, guard)
	products.Post("/", adminOnly, idem, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/components", productHandler.Components)
	products.Post("/:id/components", adminOnly, idem, productHandler.AddComponent)
	products.Get("/:id/sellable", productHandler.Sellable)

	// Bodegas
	warehouses := protected.Group("/warehouses", anyRole)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)

	// Alertas por empresa
	companies := protected.Group("/companies", anyRole)
	companyHandler := NewCompanyHandler(deps.Alerts)
	companies.Get("/:id/alerts/low-stock", companyHandler.LowStockAlerts)
}
