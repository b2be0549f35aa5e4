package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
)

// CompanyHandler endpoints a nivel de empresa (protegido).
type CompanyHandler struct {
	alerts *inventory.AlertsUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(alerts *inventory.AlertsUseCase) *CompanyHandler {
	return &CompanyHandler{alerts: alerts}
}

// LowStockAlerts godoc
// @Summary      Alertas de stock bajo
// @Description  Registros bajo su mínimo de productos con ventas recientes, con días estimados hasta el quiebre
//
//	y el contacto del proveedor.
//
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa (debe ser la del token)"
// @Success      200  {object}  dto.LowStockAlertsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/alerts/low-stock [get]
func (h *CompanyHandler) LowStockAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if c.Params("id") != companyID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado a otra empresa"})
	}
	alerts, err := h.alerts.LowStock(c.Context(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.LowStockAlertsResponse{Alerts: make([]dto.LowStockAlertDTO, 0, len(alerts)), TotalAlerts: len(alerts)}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, dto.LowStockAlertDTO{
			ProductID:         a.ProductID,
			ProductName:       a.ProductName,
			SKU:               a.SKU,
			WarehouseID:       a.WarehouseID,
			WarehouseName:     a.WarehouseName,
			CurrentStock:      a.CurrentStock,
			Threshold:         a.MinStock,
			RecentSales:       a.RecentSales,
			DaysUntilStockout: a.DaysUntilStockout,
			Supplier: dto.SupplierDTO{
				ID:           a.SupplierID,
				Name:         a.SupplierName,
				ContactEmail: a.SupplierEmail,
			},
		})
	}
	return c.JSON(out)
}
