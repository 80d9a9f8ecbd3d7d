package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalItems      int             `json:"total_items"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TodayMovements  int             `json:"today_movements"`
	ActiveSuppliers int             `json:"active_suppliers"`
	ActiveUsers     int             `json:"active_users"`
}

// CategoryDistributionDTO participación de una categoría en el inventario.
type CategoryDistributionDTO struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ItemCount    int             `json:"item_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Percentage   decimal.Decimal `json:"percentage"` // sobre el total de ítems no eliminados
}

// LowStockAlertDTO ítem en alerta de stock bajo.
type LowStockAlertDTO struct {
	ItemID            string    `json:"item_id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CategoryName      string    `json:"category_name"`
	SupplierName      string    `json:"supplier_name"`
	LastRestocked     time.Time `json:"last_restocked"` // CreatedAt si nunca se reabasteció
}

// MonthlyMovementsDTO totales de un mes para el gráfico del dashboard.
type MonthlyMovementsDTO struct {
	Period      string `json:"period"` // "YYYY-MM"
	Inbound     int    `json:"inbound"`
	Outbound    int    `json:"outbound"`
	Adjustments int    `json:"adjustments"` // cantidad de ajustes registrados
}
