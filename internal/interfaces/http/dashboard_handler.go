package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-core/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve los indicadores generales del inventario.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStatsDTO (total_items, low_stock_items, out_of_stock_items,
// total_value, today_movements, active_suppliers, active_users).
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetCategoryDistribution GET /api/dashboard/category-distribution
func (h *DashboardHandler) GetCategoryDistribution(c *fiber.Ctx) error {
	out, err := h.uc.GetCategoryDistribution(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetRecentActivity devuelve los últimos movimientos del ledger.
// GET /api/dashboard/recent-activity?limit=10 (máximo 50)
func (h *DashboardHandler) GetRecentActivity(c *fiber.Ctx) error {
	out, err := h.uc.GetRecentActivity(c.Context(), c.QueryInt("limit", appanalytics.DefaultRecentActivity))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetLowStockAlerts GET /api/dashboard/low-stock-alerts
func (h *DashboardHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	out, err := h.uc.GetLowStockAlerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMonthlyMovements devuelve totales mensuales de entradas, salidas y ajustes.
// GET /api/dashboard/monthly-movements?months=6 (máximo 24)
//
// Los meses sin movimientos se devuelven en cero.
func (h *DashboardHandler) GetMonthlyMovements(c *fiber.Ctx) error {
	out, err := h.uc.GetMonthlyMovements(c.Context(), c.QueryInt("months", appanalytics.DefaultMonthlyMovements))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
