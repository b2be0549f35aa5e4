package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
)

// ProductHandler maneja productos, composición de bundles y disponibilidad (protegido).
type ProductHandler struct {
	uc           *usecase.ProductUseCase
	resolver     *inventory.BundleResolver
	availability *inventory.Availability
	guard        tenantGuard
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, resolver *inventory.BundleResolver, availability *inventory.Availability, guard tenantGuard) *ProductHandler {
	return &ProductHandler{uc: uc, resolver: resolver, availability: availability, guard: guard}
}

// Create godoc
// @Summary      Crear producto
// @Description  Con warehouse_id crea además el registro de inventario con el stock inicial (auditado) y el mínimo.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.guard.product(c.Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Context(), companyID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Components godoc
// @Summary      Componentes directos de un bundle
// @Tags         bundles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del bundle"
// @Success      200  {array}   dto.ComponentDTO
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/components [get]
func (h *ProductHandler) Components(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.guard.product(c.Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	items, err := h.resolver.ComponentsOf(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ComponentDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ComponentDTO{ComponentProductID: it.ComponentProductID, Quantity: it.Quantity})
	}
	return c.JSON(out)
}

// AddComponent godoc
// @Summary      Agregar componente a un bundle
// @Description  Rechaza componentes que cerrarían un ciclo (409 CYCLIC_BUNDLE).
// @Tags         bundles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del bundle"
// @Param        body  body  dto.AddComponentRequest  true  "component_product_id, quantity"
// @Success      201   {object}  dto.ComponentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/components [post]
func (h *ProductHandler) AddComponent(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddComponentRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	// el ID queda guardado en la arista; no debe apuntar al buffer de la petición
	id := utils.CopyString(c.Params("id"))
	if err := h.guard.product(c.Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	if err := h.guard.product(c.Context(), companyID, in.ComponentProductID); err != nil {
		return writeError(c, err)
	}
	item, err := h.resolver.AddComponent(c.Context(), id, in.ComponentProductID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ComponentDTO{ComponentProductID: item.ComponentProductID, Quantity: item.Quantity})
}

// Sellable godoc
// @Summary      Unidades vendibles
// @Description  Con warehouse_id: vendible en esa bodega (bundles = unidades armables). Sin él: total de la empresa.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "ID de la bodega"
// @Success      200  {object}  dto.QuantityResponse
// @Router       /api/products/{id}/sellable [get]
func (h *ProductHandler) Sellable(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, warehouseID := c.Params("id"), c.Query("warehouse_id")
	if err := h.guard.pair(c.Context(), companyID, id, warehouseID); err != nil {
		return writeError(c, err)
	}
	var (
		qty int64
		err error
	)
	if warehouseID == "" {
		qty, err = h.availability.SellableCompanyWide(c.Context(), id)
	} else {
		qty, err = h.availability.SellableAt(c.Context(), id, warehouseID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QuantityResponse{ProductID: id, WarehouseID: warehouseID, Quantity: qty})
}
