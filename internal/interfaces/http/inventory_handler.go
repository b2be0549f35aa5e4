package http

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
)

// InventoryHandler expone el ledger, el umbral y la proyección (protegido).
type InventoryHandler struct {
	ledger       *inventory.Ledger
	threshold    *inventory.ThresholdEvaluator
	guard        tenantGuard
	lookbackDays int
}

// NewInventoryHandler construye el handler. lookbackDays es la ventana por defecto de la proyección.
func NewInventoryHandler(ledger *inventory.Ledger, threshold *inventory.ThresholdEvaluator, guard tenantGuard, lookbackDays int) *InventoryHandler {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &InventoryHandler{ledger: ledger, threshold: threshold, guard: guard, lookbackDays: lookbackDays}
}

// ApplyDelta godoc
// @Summary      Aplicar movimiento de stock
// @Description  Delta con signo sobre producto+bodega: venta simple (negativo), reposición o ajuste.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos seguros"
// @Param        body  body  dto.ApplyDeltaRequest  true  "product_id, warehouse_id, delta, note"
// @Success      201   {object}  dto.DeltaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/deltas [post]
func (h *InventoryHandler) ApplyDelta(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyDeltaRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.guard.pair(c.Context(), companyID, in.ProductID, in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	qty, err := h.ledger.ApplyDelta(c.Context(), in.ProductID, in.WarehouseID, in.Delta, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DeltaResponse{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		NewQuantity: qty,
	})
}

// BundleSale godoc
// @Summary      Registrar venta de bundle
// @Description  Descuenta atómicamente todos los componentes (hojas) del bundle en la bodega.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para reintentos seguros"
// @Param        body  body  dto.BundleSaleRequest  true  "bundle_product_id, warehouse_id, units"
// @Success      201   {object}  dto.BundleSaleResponse
// @Failure      400   {object}  dto.ErrorResponse  "Entrada inválida o bundle sin componentes"
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/bundle-sales [post]
func (h *InventoryHandler) BundleSale(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.BundleSaleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.guard.pair(c.Context(), companyID, in.BundleProductID, in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	deductions, err := h.ledger.ApplyBundleSale(c.Context(), in.BundleProductID, in.WarehouseID, in.Units, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.BundleSaleResponse{
		BundleProductID: in.BundleProductID,
		WarehouseID:     in.WarehouseID,
		Units:           in.Units,
		Components:      make([]dto.ComponentDeductionDTO, 0, len(deductions)),
	}
	for _, d := range deductions {
		out.Components = append(out.Components, dto.ComponentDeductionDTO{
			ProductID:   d.ProductID,
			Deducted:    d.Deducted,
			NewQuantity: d.NewQuantity,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Quantity godoc
// @Summary      Cantidad registrada
// @Description  Cantidad cruda del registro producto+bodega (0 si no existe).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.QuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/quantity [get]
func (h *InventoryHandler) Quantity(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if warehouseID == "" {
		return badRequest(c, "VALIDATION", "warehouse_id es requerido")
	}
	if err := h.guard.pair(c.Context(), companyID, productID, warehouseID); err != nil {
		return writeError(c, err)
	}
	qty, err := h.ledger.CurrentQuantity(c.Context(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QuantityResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
}

// BelowMinimum godoc
// @Summary      ¿Stock por debajo del mínimo?
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.ThresholdResponse
// @Router       /api/inventory/below-minimum [get]
func (h *InventoryHandler) BelowMinimum(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if warehouseID == "" {
		return badRequest(c, "VALIDATION", "warehouse_id es requerido")
	}
	if err := h.guard.pair(c.Context(), companyID, productID, warehouseID); err != nil {
		return writeError(c, err)
	}
	below, err := h.threshold.IsBelowMinimum(c.Context(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ThresholdResponse{ProductID: productID, WarehouseID: warehouseID, BelowMinimum: below})
}

// Projection godoc
// @Summary      Días estimados hasta el quiebre de stock
// @Description  Sin warehouse_id proyecta sobre toda la empresa. days_to_stockout es null (never=true) si no hubo ventas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  true   "ID del producto"
// @Param        warehouse_id   query  string  false  "ID de la bodega"
// @Param        lookback_days  query  int     false  "Ventana de ventas en días"
// @Success      200  {object}  dto.ProjectionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/projection [get]
func (h *InventoryHandler) Projection(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	lookback := h.lookbackDays
	if raw := c.Query("lookback_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest(c, "VALIDATION", "lookback_days debe ser un entero positivo")
		}
		lookback = n
	}
	if err := h.guard.pair(c.Context(), companyID, productID, warehouseID); err != nil {
		return writeError(c, err)
	}
	days, err := h.threshold.ProjectedDaysToStockout(c.Context(), productID, warehouseID, lookback)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ProjectionResponse{ProductID: productID, WarehouseID: warehouseID, LookbackDays: lookback}
	if math.IsInf(days, 1) {
		out.Never = true
	} else {
		out.DaysToStockout = &days
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Historial de cambios de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Máximo de entradas (default 50)"
// @Success      200  {array}  dto.AuditEntryDTO
// @Router       /api/inventory/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if warehouseID == "" {
		return badRequest(c, "VALIDATION", "warehouse_id es requerido")
	}
	if err := h.guard.pair(c.Context(), companyID, productID, warehouseID); err != nil {
		return writeError(c, err)
	}
	entries, err := h.ledger.History(c.Context(), productID, warehouseID, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryDTO{
			ID:          e.ID,
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			ChangeQty:   e.ChangeQty,
			NewQuantity: e.NewQuantity,
			ChangedAt:   e.ChangedAt,
			Note:        e.Note,
		})
	}
	return c.JSON(out)
}

// SetMinStock godoc
// @Summary      Fijar stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetMinStockRequest  true  "product_id, warehouse_id, min_stock"
// @Success      200   {object}  dto.SetMinStockRequest
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/min-stock [put]
func (h *InventoryHandler) SetMinStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SetMinStockRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.guard.pair(c.Context(), companyID, in.ProductID, in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	if err := h.ledger.SetMinStock(c.Context(), in.ProductID, in.WarehouseID, in.MinStock); err != nil {
		return writeError(c, err)
	}
	return c.JSON(in)
}
