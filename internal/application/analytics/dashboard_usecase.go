// Package analytics contiene los casos de uso del dashboard de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

const (
	lowStockAlertLimit      = 10 // alertas mostradas en el widget
	DefaultRecentActivity   = 10
	MaxRecentActivity       = 50
	DefaultMonthlyMovements = 6
	MaxMonthlyMovements     = 24
)

// DashboardUseCase genera los widgets del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) más los repositorios
// de ítems y movimientos para listados puntuales.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	itemRepo      repository.ItemRepository
	movRepo       repository.MovementRepository
	clock         clock.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	clk clock.Clock,
) *DashboardUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, itemRepo: itemRepo, movRepo: movRepo, clock: clk}
}

// GetStats construye DashboardStatsDTO.
//
// Cinco consultas en paralelo:
//  1. GetInventoryCounts       → TotalItems, LowStockItems, OutOfStockItems
//  2. TotalValue               → TotalValue
//  3. CountMovementsBetween    → TodayMovements (día UTC en curso)
//  4. CountActiveSuppliers     → ActiveSuppliers
//  5. CountActiveUsers         → ActiveUsers
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.clock.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.AddDate(0, 0, 1)

	type countsResult struct {
		counts repository.InventoryCounts
		err    error
	}
	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	type intResult struct {
		n   int
		err error
	}

	countsCh := make(chan countsResult, 1)
	valueCh := make(chan valueResult, 1)
	todayCh := make(chan intResult, 1)
	suppliersCh := make(chan intResult, 1)
	usersCh := make(chan intResult, 1)

	go func() {
		c, err := uc.analyticsRepo.GetInventoryCounts(ctx)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		v, err := uc.itemRepo.TotalValue(ctx)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountMovementsBetween(ctx, todayStart, todayEnd)
		todayCh <- intResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveSuppliers(ctx)
		suppliersCh <- intResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveUsers(ctx)
		usersCh <- intResult{n, err}
	}()

	counts := <-countsCh
	value := <-valueCh
	today := <-todayCh
	suppliers := <-suppliersCh
	users := <-usersCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos de inventario: %w", counts.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor total: %w", value.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", today.err)
	}
	if suppliers.err != nil {
		return nil, fmt.Errorf("dashboard: proveedores activos: %w", suppliers.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios activos: %w", users.err)
	}

	return &dto.DashboardStatsDTO{
		TotalItems:      counts.counts.Total,
		LowStockItems:   counts.counts.LowStock,
		OutOfStockItems: counts.counts.OutOfStock,
		TotalValue:      value.value.Round(2),
		TodayMovements:  today.n,
		ActiveSuppliers: suppliers.n,
		ActiveUsers:     users.n,
	}, nil
}

// GetCategoryDistribution participación de cada categoría con ítems; el porcentaje es sobre
// el total de ítems no eliminados, con 2 decimales.
func (uc *DashboardUseCase) GetCategoryDistribution(ctx context.Context) ([]dto.CategoryDistributionDTO, error) {
	stats, err := uc.analyticsRepo.GetCategoryDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: distribución por categoría: %w", err)
	}
	total := 0
	for _, s := range stats {
		total += s.ItemCount
	}
	out := make([]dto.CategoryDistributionDTO, 0, len(stats))
	for _, s := range stats {
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(int64(s.ItemCount)).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(total))).
				Round(2)
		}
		out = append(out, dto.CategoryDistributionDTO{
			CategoryID:   s.CategoryID,
			CategoryName: s.CategoryName,
			ItemCount:    s.ItemCount,
			TotalValue:   s.TotalValue.Round(2),
			Percentage:   pct,
		})
	}
	return out, nil
}

// GetRecentActivity últimos movimientos del ledger (más recientes primero).
// limit <= 0 usa DefaultRecentActivity; se acota a MaxRecentActivity.
func (uc *DashboardUseCase) GetRecentActivity(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentActivity
	}
	if limit > MaxRecentActivity {
		limit = MaxRecentActivity
	}
	list, _, err := uc.movRepo.List(ctx, repository.MovementFilter{
		SortBy:     repository.MovementSortDate,
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: actividad reciente: %w", err)
	}
	return inventory.MovementResponses(list), nil
}

// GetLowStockAlerts los ítems con menos stock (sin agotados), hasta lowStockAlertLimit.
func (uc *DashboardUseCase) GetLowStockAlerts(ctx context.Context) ([]dto.LowStockAlertDTO, error) {
	list, err := uc.itemRepo.ListLowStock(ctx, lowStockAlertLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: alertas de stock: %w", err)
	}
	out := make([]dto.LowStockAlertDTO, 0, len(list))
	for _, d := range list {
		restocked := d.CreatedAt
		if d.LastRestocked != nil {
			restocked = *d.LastRestocked
		}
		out = append(out, dto.LowStockAlertDTO{
			ItemID:            d.ID,
			Name:              d.Name,
			SKU:               d.SKU,
			Quantity:          d.Quantity,
			LowStockThreshold: d.LowStockThreshold,
			CategoryName:      d.CategoryName,
			SupplierName:      d.SupplierName,
			LastRestocked:     restocked,
		})
	}
	return out, nil
}

// GetMonthlyMovements totales por mes de los últimos months meses (el actual incluido),
// del más antiguo al más reciente. Los meses sin movimientos aparecen en cero.
func (uc *DashboardUseCase) GetMonthlyMovements(ctx context.Context, months int) ([]dto.MonthlyMovementsDTO, error) {
	if months <= 0 {
		months = DefaultMonthlyMovements
	}
	if months > MaxMonthlyMovements {
		return nil, fmt.Errorf("%w: months debe ser <= %d", domain.ErrInvalidInput, MaxMonthlyMovements)
	}
	now := uc.clock.Now().UTC()
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	from := to.AddDate(0, -months, 0)

	rows, err := uc.movRepo.MonthlySummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: movimientos mensuales: %w", err)
	}

	out := make([]dto.MonthlyMovementsDTO, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		p := periodLabel(from.AddDate(0, i, 0))
		out[i].Period = p
		index[p] = i
	}
	for _, r := range rows {
		i, ok := index[fmt.Sprintf("%04d-%02d", r.Year, r.Month)]
		if !ok {
			continue
		}
		switch r.Type {
		case entity.MovementTypeInbound:
			out[i].Inbound += r.TotalQuantity
		case entity.MovementTypeOutbound:
			out[i].Outbound += abs(r.TotalQuantity)
		case entity.MovementTypeAdjustment:
			out[i].Adjustments += r.Count
		}
	}
	return out, nil
}

// periodLabel "YYYY-MM".
func periodLabel(t time.Time) string {
	return t.Format("2006-01")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
