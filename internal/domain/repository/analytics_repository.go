package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCounts conteos de ítems por estado (sin eliminados en Total).
type InventoryCounts struct {
	Total      int
	LowStock   int
	OutOfStock int
}

// CategoryStat resultado crudo de la distribución por categoría.
type CategoryStat struct {
	CategoryID   string
	CategoryName string
	ItemCount    int
	TotalValue   decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	GetInventoryCounts(ctx context.Context) (InventoryCounts, error)
	// CountMovementsBetween cuenta movimientos con fecha en [from, to).
	CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error)
	CountActiveSuppliers(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
	// GetCategoryDistribution solo incluye categorías con al menos un ítem no eliminado.
	GetCategoryDistribution(ctx context.Context) ([]CategoryStat, error)
}
