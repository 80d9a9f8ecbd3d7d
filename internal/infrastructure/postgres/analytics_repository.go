package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetInventoryCounts conteos por estado de los ítems no eliminados.
func (r *AnalyticsRepo) GetInventoryCounts(ctx context.Context) (repository.InventoryCounts, error) {
	const query = `
	SELECT
	    COUNT(*)                                         AS total,
	    COUNT(*) FILTER (WHERE status = 'low-stock')     AS low_stock,
	    COUNT(*) FILTER (WHERE status = 'out-of-stock')  AS out_of_stock
	FROM items
	WHERE status <> 'deleted'`

	var c repository.InventoryCounts
	if err := r.q.QueryRow(ctx, query).Scan(&c.Total, &c.LowStock, &c.OutOfStock); err != nil {
		return c, fmt.Errorf("analytics.GetInventoryCounts: %w", err)
	}
	return c, nil
}

// CountMovementsBetween cuenta movimientos con fecha en [from, to).
func (r *AnalyticsRepo) CountMovementsBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM movements WHERE movement_date >= $1 AND movement_date < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountMovementsBetween: %w", err)
	}
	return n, nil
}

// CountActiveSuppliers proveedores con estado active.
func (r *AnalyticsRepo) CountActiveSuppliers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers WHERE status = 'active'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountActiveSuppliers: %w", err)
	}
	return n, nil
}

// CountActiveUsers usuarios activos.
func (r *AnalyticsRepo) CountActiveUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountActiveUsers: %w", err)
	}
	return n, nil
}

// GetCategoryDistribution ítems y valor por categoría; solo categorías con ítems no eliminados.
func (r *AnalyticsRepo) GetCategoryDistribution(ctx context.Context) ([]repository.CategoryStat, error) {
	const query = `
	SELECT
	    c.id::text                                  AS category_id,
	    c.name                                      AS category_name,
	    COUNT(i.id)::int                            AS item_count,
	    COALESCE(SUM(i.quantity * i.unit_price), 0) AS total_value
	FROM categories c
	JOIN items i ON i.category_id = c.id AND i.status <> 'deleted'
	GROUP BY c.id, c.name
	ORDER BY c.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetCategoryDistribution: %w", err)
	}
	defer rows.Close()

	results := make([]repository.CategoryStat, 0)
	for rows.Next() {
		var s repository.CategoryStat
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.ItemCount, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.GetCategoryDistribution scan: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
