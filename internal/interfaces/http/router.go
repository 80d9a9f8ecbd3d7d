package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-core/internal/application/analytics"
	"github.com/jhoicas/inventario-core/internal/application/auth"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/application/report"
	"github.com/jhoicas/inventario-core/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ItemUC     *inventory.ItemUseCase
	ItemQuery  *inventory.ItemQueryUseCase
	MovementUC *inventory.MovementUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	Dashboard  *appanalytics.DashboardUseCase
	ReportUC   *report.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
//
// Lecturas: cualquier usuario autenticado. Altas y cambios: admin o manager.
// Bajas y registro de usuarios: solo admin. Movimientos: cualquier rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", RequireRole(rolesAdmin...), authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	// Items (las rutas fijas van antes de /:id)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.ItemQuery)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/total-value", itemHandler.TotalValue)
	items.Get("/check-sku/:sku", itemHandler.CheckSku)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", RequireRole(rolesManager...), itemHandler.Create)
	items.Put("/:id", RequireRole(rolesManager...), itemHandler.Update)
	items.Delete("/:id", RequireRole(rolesAdmin...), itemHandler.Delete)

	// Movements
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/summary", movementHandler.Summary)
	movements.Post("/", movementHandler.Record)
	movements.Post("/adjust", movementHandler.Adjust)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", RequireRole(rolesManager...), categoryHandler.Create)
	categories.Put("/:id", RequireRole(rolesManager...), categoryHandler.Update)
	categories.Delete("/:id", RequireRole(rolesAdmin...), categoryHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/stats", supplierHandler.Stats)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", RequireRole(rolesManager...), supplierHandler.Create)
	suppliers.Put("/:id", RequireRole(rolesManager...), supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(rolesAdmin...), supplierHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/category-distribution", dashboardHandler.GetCategoryDistribution)
	dashboard.Get("/recent-activity", dashboardHandler.GetRecentActivity)
	dashboard.Get("/low-stock-alerts", dashboardHandler.GetLowStockAlerts)
	dashboard.Get("/monthly-movements", dashboardHandler.GetMonthlyMovements)

	// Reports
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports/:kind", RequireRole(rolesManager...), reportHandler.Download)
}
